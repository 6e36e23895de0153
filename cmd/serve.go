package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/internal/remote"
	"github.com/kherrera/gitattrib/internal/stream"
)

// serveSetup loads the minimal configuration needed by the progress
// server. No local repository is involved, so the full shared setup
// (and its repo validation) is skipped.
func serveSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	cfg.ServeAddr = viper.GetString("addr")
	cfg.Token = viper.GetString("token")
	cfg.MaxCommits = viper.GetInt("max-commits")
	cfg.IncludeMerges = viper.GetBool("include-merges")
	return nil
}

// serveCmd streams fetch progress to HTTP clients over SSE.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fetch progress over server-sent events.",
	Long: `Run an HTTP server that performs remote fetches on request and
streams progress to the client as server-sent events.

GET /fetch?repo=owner/name starts a fetch and streams progress frames,
ending with exactly one terminal complete or error event. Optional
query parameters: max_commits, start_page, since, until,
include_merges.

Examples:
  # Serve on the default port
  gitattrib serve

  # Serve on a custom address with an API token from the environment
  GITATTRIB_TOKEN=ghp_... gitattrib serve --addr :9090`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return serveSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := runServe(); err != nil {
			contract.LogFatal("Cannot run progress server", err)
		}
	},
}

// runServe blocks serving SSE fetch progress until the process exits.
func runServe() error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	fetcher := remote.NewFetcher(nil, cfg.Token, &logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/fetch", func(w http.ResponseWriter, r *http.Request) {
		opts, err := fetchOptionsFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		handler := stream.NewHandler(func(_ *http.Request, emitter *stream.Emitter) {
			opts.Progress = emitter.Progress
			result, err := fetcher.Fetch(r.Context(), opts)
			if err != nil {
				stream.EmitAbort(emitter, err)
				return
			}
			emitter.Complete(result.Commits, result.HasMore, result.NextPage)
		}, &logger)
		handler.ServeHTTP(w, r)
	})

	server := &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info().Str("addr", cfg.ServeAddr).Msg("progress server listening")
	return server.ListenAndServe()
}

// fetchOptionsFromQuery validates query parameters before any stream
// frame is written, so bad requests still get a plain 400.
func fetchOptionsFromQuery(r *http.Request) (remote.Options, error) {
	q := r.URL.Query()

	repo := q.Get("repo")
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return remote.Options{}, fmt.Errorf("repo query parameter is required as owner/name")
	}

	opts := remote.Options{
		Owner:         parts[0],
		Repo:          parts[1],
		Token:         cfg.Token,
		MaxCommits:    cfg.MaxCommits,
		IncludeMerges: cfg.IncludeMerges,
	}

	if v := q.Get("max_commits"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return remote.Options{}, fmt.Errorf("invalid max_commits %q", v)
		}
		opts.MaxCommits = n
	}
	if v := q.Get("start_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return remote.Options{}, fmt.Errorf("invalid start_page %q", v)
		}
		opts.StartPage = n
	}
	if v := q.Get("include_merges"); v != "" {
		b, err := contract.ParseBoolString(v)
		if err != nil {
			return remote.Options{}, fmt.Errorf("invalid include_merges %q", v)
		}
		opts.IncludeMerges = b
	}

	now := time.Now()
	parse := func(s string) (time.Time, error) {
		if t, err := time.Parse(contract.DateTimeFormat, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}
		return contract.ParseRelativeTime(s, now)
	}
	if v := q.Get("since"); v != "" {
		t, err := parse(v)
		if err != nil {
			return remote.Options{}, fmt.Errorf("invalid since %q", v)
		}
		opts.Since = t
	}
	if v := q.Get("until"); v != "" {
		t, err := parse(v)
		if err != nil {
			return remote.Options{}, fmt.Errorf("invalid until %q", v)
		}
		opts.Until = t
	}
	if !opts.Since.IsZero() && !opts.Until.IsZero() && opts.Since.After(opts.Until) {
		return remote.Options{}, fmt.Errorf("since cannot be after until")
	}

	return opts, nil
}
