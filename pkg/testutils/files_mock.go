package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/patchrc/pkg/files"
)

// MockFileManager is a testify mock of files.FileManager
type MockFileManager struct {
	mock.Mock
}

var _ files.FileManager = (*MockFileManager)(nil)

// NewMockFileManager creates a mock whose expectations are asserted on cleanup
func NewMockFileManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFileManager {
	m := &MockFileManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockFileManager) WriteFile(ctx context.Context, path string, content []byte) error {
	return m.Called(ctx, path, content).Error(0)
}

func (m *MockFileManager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	return m.Called(ctx, path, content).Error(0)
}

func (m *MockFileManager) FileExists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileManager) BackupFile(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockFileManager) RestoreFile(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockFileManager) Glob(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	s, _ := args.Get(0).([]string)
	return s, args.Error(1)
}
