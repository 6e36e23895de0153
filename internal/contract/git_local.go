package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// MaxOutputBytes bounds subprocess stdout on pathological repositories.
const MaxOutputBytes = 200 << 20 // 200 MB

// DefaultCommandTimeout bounds a single git invocation.
const DefaultCommandTimeout = 2 * time.Minute

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct {
	// Timeout applies per call. Zero means DefaultCommandTimeout.
	Timeout time.Duration
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{Timeout: DefaultCommandTimeout}
}

// cappedBuffer collects writes up to a byte ceiling and fails beyond it.
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if c.buf.Len()+len(p) > c.max {
		return 0, ErrOutputTooLarge
	}
	return c.buf.Write(p)
}

// Run executes a git command with arguments passed as an array (never a
// shell), a wall-clock timeout, and a bounded stdout buffer.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(runCtx, "git", fullArgs...)

	stdout := &cappedBuffer{max: MaxOutputBytes}
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("git %s after %s: %w", args[0], timeout, ErrProcessTimeout)
	}
	if err != nil {
		if errors.Is(err, ErrOutputTooLarge) {
			return nil, fmt.Errorf("git %s in %q: %w", args[0], repoPath, ErrOutputTooLarge)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			return nil, fmt.Errorf("git %s in %q: %s: %w", args[0], repoPath, msg, ErrProcessFailure)
		}
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return stdout.buf.Bytes(), nil
}

// VerifyRepository implements the GitClient interface. It runs before
// any other command so engines fail fast outside a work tree.
func (c *LocalGitClient) VerifyRepository(ctx context.Context, repoPath string) error {
	if _, err := c.Run(ctx, repoPath, "rev-parse", "--git-dir"); err != nil {
		return fmt.Errorf("%q: %w", repoPath, ErrNotARepository)
	}
	return nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CountCommits implements the GitClient interface. An unborn HEAD
// (zero commits) is reported as count 0; every other rev-list failure
// propagates so a broken repository never reads as empty.
func (c *LocalGitClient) CountCommits(ctx context.Context, repoPath string) (int, error) {
	out, err := c.Run(ctx, repoPath, "rev-list", "--count", "HEAD")
	if err != nil {
		if errors.Is(err, ErrProcessFailure) && isUnbornHead(err) {
			return 0, nil
		}
		return 0, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(string(out)))
	if convErr != nil {
		return 0, fmt.Errorf("unexpected rev-list output: %w", convErr)
	}
	return n, nil
}

// isUnbornHead recognizes the rev-list stderr for a repository that has
// no commits yet. Git has used both phrasings across versions; the
// failure message carries the stderr text.
func isUnbornHead(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown revision") ||
		strings.Contains(msg, "bad default revision")
}

// ListTrackedFiles implements the GitClient interface.
func (c *LocalGitClient) ListTrackedFiles(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(strings.TrimRight(string(out), "\x00"), "\x00")
	if len(parts) == 1 && parts[0] == "" {
		return []string{}, nil
	}
	return parts, nil
}

// BlameFile implements the GitClient interface.
func (c *LocalGitClient) BlameFile(ctx context.Context, repoPath, path string, opts BlameFlags) ([]byte, error) {
	args := []string{"blame", "--line-porcelain"}
	if opts.IgnoreWhitespace {
		args = append(args, "-w")
	}
	if opts.DetectMoves {
		args = append(args, "-M")
	}
	if opts.DetectCopies {
		args = append(args, "-C")
	}
	args = append(args, "HEAD", "--", path)
	return c.Run(ctx, repoPath, args...)
}

// GetNumstatLog implements the GitClient interface. Filters are passed
// through to git so unnecessary history is never read.
func (c *LocalGitClient) GetNumstatLog(ctx context.Context, repoPath string, opts LogFilter) ([]byte, error) {
	args := []string{
		"log",
		"--numstat",
		"--pretty=format:%H%x09%P%x09%an%x09%ae%x09%aI%x09%s",
		"--date=iso-strict",
	}
	if !opts.IncludeMerges {
		args = append(args, "--no-merges")
	}
	if !opts.Since.IsZero() {
		args = append(args, "--since="+opts.Since.Format(time.RFC3339))
	}
	if !opts.Until.IsZero() {
		args = append(args, "--until="+opts.Until.Format(time.RFC3339))
	}
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}
	return c.Run(ctx, repoPath, args...)
}

// CheckMailmap implements the GitClient interface. All contacts resolve
// in one subprocess call; git echoes one canonical contact per line in
// input order.
func (c *LocalGitClient) CheckMailmap(ctx context.Context, repoPath string, contacts []string) ([]string, error) {
	if len(contacts) == 0 {
		return []string{}, nil
	}
	args := append([]string{"check-mailmap"}, contacts...)
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != len(contacts) {
		return nil, fmt.Errorf("check-mailmap returned %d lines for %d contacts: %w", len(lines), len(contacts), ErrProcessFailure)
	}
	return lines, nil
}
