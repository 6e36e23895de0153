package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// VerifyRepository implements the GitClient interface.
func (m *MockGitClient) VerifyRepository(ctx context.Context, repoPath string) error {
	ret := m.Called(ctx, repoPath)
	return ret.Error(0)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// CountCommits implements the GitClient interface.
func (m *MockGitClient) CountCommits(ctx context.Context, repoPath string) (int, error) {
	ret := m.Called(ctx, repoPath)
	n, _ := ret.Get(0).(int)
	return n, ret.Error(1)
}

// ListTrackedFiles implements the GitClient interface.
func (m *MockGitClient) ListTrackedFiles(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// BlameFile implements the GitClient interface.
func (m *MockGitClient) BlameFile(ctx context.Context, repoPath, path string, opts BlameFlags) ([]byte, error) {
	ret := m.Called(ctx, repoPath, path, opts)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetNumstatLog implements the GitClient interface.
func (m *MockGitClient) GetNumstatLog(ctx context.Context, repoPath string, opts LogFilter) ([]byte, error) {
	ret := m.Called(ctx, repoPath, opts)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// CheckMailmap implements the GitClient interface.
func (m *MockGitClient) CheckMailmap(ctx context.Context, repoPath string, contacts []string) ([]string, error) {
	ret := m.Called(ctx, repoPath, contacts)
	resolved, _ := ret.Get(0).([]string)
	return resolved, ret.Error(1)
}
