package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// newTestRepo creates a throwaway repository with a single commit.
func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init")
	run("config", "user.name", "Test Author")
	run("config", "user.email", "test@example.com")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	run("add", ".")
	run("commit", "-m", "initial commit")
	return dir
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	// The Run implementation flattens (ctx, repoPath, args...) into a
	// single variadic call, so .On() must match the same shape.
	var calledArgs []any
	ctx := context.Background()
	calledArgs = append(calledArgs, ctx, expectedRepoPath)
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client)
	assert.Equal(t, DefaultCommandTimeout, client.Timeout)
}

func TestLocalGitClient_VerifyRepository(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	t.Run("valid repository", func(t *testing.T) {
		repo := newTestRepo(t)
		assert.NoError(t, client.VerifyRepository(ctx, repo))
	})

	t.Run("plain directory fails", func(t *testing.T) {
		err := client.VerifyRepository(ctx, t.TempDir())
		assert.ErrorIs(t, err, ErrNotARepository)
	})
}

func TestLocalGitClient_CountCommits(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	t.Run("single commit", func(t *testing.T) {
		repo := newTestRepo(t)
		n, err := client.CountCommits(ctx, repo)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("unborn HEAD counts zero", func(t *testing.T) {
		dir := t.TempDir()
		out, err := exec.Command("git", "-C", dir, "init").CombinedOutput()
		require.NoError(t, err, "%s", out)

		n, err := client.CountCommits(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("missing commit object propagates the failure", func(t *testing.T) {
		repo := newTestRepo(t)
		sha, err := client.GetRepoHash(ctx, repo)
		require.NoError(t, err)

		// Deleting HEAD's object makes rev-list fail for a reason that
		// is not an unborn HEAD, which must not read as an empty repo.
		objPath := filepath.Join(repo, ".git", "objects", sha[:2], sha[2:])
		require.NoError(t, os.Remove(objPath))

		_, err = client.CountCommits(ctx, repo)
		assert.ErrorIs(t, err, ErrProcessFailure)
	})
}

func TestLocalGitClient_ListTrackedFiles(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	repo := newTestRepo(t)

	files, err := client.ListTrackedFiles(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, files)
}

func TestLocalGitClient_GetRepoHash(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	repo := newTestRepo(t)

	hash, err := client.GetRepoHash(context.Background(), repo)
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestLocalGitClient_BlameFile(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	repo := newTestRepo(t)

	out, err := client.BlameFile(context.Background(), repo, "main.go", DefaultBlameFlags())
	require.NoError(t, err)
	assert.Contains(t, string(out), "author Test Author")
	assert.Contains(t, string(out), "author-mail <test@example.com>")
}

func TestLocalGitClient_GetNumstatLog(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	repo := newTestRepo(t)

	out, err := client.GetNumstatLog(context.Background(), repo, LogFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.NotEmpty(t, lines)
	header := strings.Split(lines[0], "\t")
	require.Len(t, header, 6)
	assert.Equal(t, "Test Author", header[2])
	assert.Equal(t, "test@example.com", header[3])
}

func TestLocalGitClient_CheckMailmap(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()
	repo := newTestRepo(t)

	t.Run("empty input", func(t *testing.T) {
		resolved, err := client.CheckMailmap(context.Background(), repo, nil)
		require.NoError(t, err)
		assert.Empty(t, resolved)
	})

	t.Run("identity passthrough without mailmap", func(t *testing.T) {
		contacts := []string{"Test Author <test@example.com>"}
		resolved, err := client.CheckMailmap(context.Background(), repo, contacts)
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, contacts[0], resolved[0])
	})

	t.Run("mailmap rewrites the contact", func(t *testing.T) {
		mailmap := "Canonical Name <canonical@example.com> <test@example.com>\n"
		require.NoError(t, os.WriteFile(filepath.Join(repo, ".mailmap"), []byte(mailmap), 0o644))

		resolved, err := client.CheckMailmap(context.Background(), repo, []string{"Test Author <test@example.com>"})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, "Canonical Name <canonical@example.com>", resolved[0])
	})
}

func TestLocalGitClient_RunTimeout(t *testing.T) {
	skipIfGitNotAvailable(t)
	repo := newTestRepo(t)

	client := &LocalGitClient{Timeout: time.Nanosecond}
	_, err := client.Run(context.Background(), repo, "log")
	assert.ErrorIs(t, err, ErrProcessTimeout)
}

func TestCappedBuffer(t *testing.T) {
	buf := &cappedBuffer{max: 8}

	n, err := buf.Write([]byte("12345"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = buf.Write([]byte("6789"))
	assert.ErrorIs(t, err, ErrOutputTooLarge)
}
