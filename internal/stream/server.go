package stream

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kherrera/gitattrib/internal/contract"
)

// RunFunc starts the long-running work for one request. It must report
// through the emitter and always finish with Complete or Error.
type RunFunc func(r *http.Request, emitter *Emitter)

// Handler bridges a fetch run to an SSE response.
type Handler struct {
	run    RunFunc
	logger *zerolog.Logger
}

// NewHandler creates an SSE handler around a run function.
func NewHandler(run RunFunc, logger *zerolog.Logger) *Handler {
	return &Handler{run: run, logger: logger}
}

// ServeHTTP streams events as "data: <json>\n\n" frames until the run
// emits a terminal event or the client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	emitter := NewEmitter(16)
	go h.run(r, emitter)

	events := 0
	for {
		select {
		case <-r.Context().Done():
			h.logger.Info().
				Str("path", r.URL.Path).
				Int("events", events).
				Dur("elapsed", time.Since(start)).
				Msg("client disconnected")
			return
		case event, ok := <-emitter.Events():
			if !ok {
				h.logger.Info().
					Str("path", r.URL.Path).
					Int("events", events).
					Dur("elapsed", time.Since(start)).
					Msg("stream complete")
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", event.Marshal()); err != nil {
				h.logger.Warn().Err(err).Msg("write failed")
				return
			}
			flusher.Flush()
			events++
		}
	}
}

// EmitAbort converts an error into the terminal error event.
func EmitAbort(emitter *Emitter, err error) {
	abort := contract.AbortFrom(err)
	emitter.Error(abort.Message, abort.Code)
}
