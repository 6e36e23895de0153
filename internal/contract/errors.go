package contract

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kherrera/gitattrib/schema"
)

// Sentinel errors for the failure taxonomy. Precondition and quota
// failures abort a whole operation; per-item failures are downgraded to
// warnings at the call site.
var (
	// ErrNotARepository is returned when the target path is not inside a git work tree.
	ErrNotARepository = errors.New("not a git repository")

	// ErrProcessTimeout is returned when an external call exceeds its wall-clock timeout.
	ErrProcessTimeout = errors.New("process timed out")

	// ErrProcessFailure is returned when an external call exits non-zero.
	ErrProcessFailure = errors.New("process failed")

	// ErrOutputTooLarge is returned when a subprocess exceeds the stdout ceiling.
	ErrOutputTooLarge = errors.New("process output exceeded buffer ceiling")

	// ErrRateLimitLow is returned when remaining API quota drops below the floor.
	ErrRateLimitLow = errors.New("api rate limit low")

	// ErrRateLimitExceeded is returned when the API rejects a call for quota.
	ErrRateLimitExceeded = errors.New("api rate limit exceeded")

	// ErrEmptyRepository is returned for a repository with zero commits.
	ErrEmptyRepository = errors.New("repository has no commits")

	// ErrNoNonMergeCommits is returned when merge exclusion filters every commit.
	ErrNoNonMergeCommits = errors.New("repository has only merge commits")

	// ErrInvalidCommitData is returned when a remote commit record fails validation.
	ErrInvalidCommitData = errors.New("invalid commit data")

	// ErrNetworkTimeout is returned when a remote call times out.
	ErrNetworkTimeout = errors.New("network timeout")
)

// Abort is the structured payload surfaced for any whole-operation
// failure. Production output carries only message, code and status.
type Abort struct {
	Message string           `json:"message"`
	Code    schema.ErrorCode `json:"code"`
	Status  int              `json:"status"`
}

// Error implements the error interface.
func (a *Abort) Error() string {
	return fmt.Sprintf("%s (%s)", a.Message, a.Code)
}

// JSON renders the abort payload.
func (a *Abort) JSON() []byte {
	data, _ := json.Marshal(a)
	return data
}

// CodeOf maps an error chain to its taxonomy code.
func CodeOf(err error) schema.ErrorCode {
	switch {
	case errors.Is(err, ErrNotARepository):
		return schema.CodeNotARepository
	case errors.Is(err, ErrProcessTimeout):
		return schema.CodeProcessTimeout
	case errors.Is(err, ErrProcessFailure), errors.Is(err, ErrOutputTooLarge):
		return schema.CodeProcessFailure
	case errors.Is(err, ErrRateLimitLow):
		return schema.CodeRateLimitLow
	case errors.Is(err, ErrRateLimitExceeded):
		return schema.CodeRateLimitExceeded
	case errors.Is(err, ErrEmptyRepository):
		return schema.CodeEmptyRepository
	case errors.Is(err, ErrNoNonMergeCommits):
		return schema.CodeNoNonMergeCommits
	case errors.Is(err, ErrInvalidCommitData):
		return schema.CodeInvalidCommitData
	case errors.Is(err, ErrNetworkTimeout):
		return schema.CodeNetworkTimeout
	default:
		return schema.CodeInternal
	}
}

// AbortFrom wraps an error into its structured abort payload.
func AbortFrom(err error) *Abort {
	code := CodeOf(err)
	status := 500
	switch code {
	case schema.CodeNotARepository, schema.CodeEmptyRepository, schema.CodeNoNonMergeCommits:
		status = 400
	case schema.CodeRateLimitLow, schema.CodeRateLimitExceeded:
		status = 429
	case schema.CodeProcessTimeout, schema.CodeNetworkTimeout:
		status = 504
	}
	return &Abort{Message: err.Error(), Code: code, Status: status}
}
