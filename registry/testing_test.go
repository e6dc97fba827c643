package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"primer-registry/config"
	"primer-registry/orm"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

// ErrStorageError is a test error for archive operations
var ErrStorageError = errors.New("storage error")

// MockArchive is a mock implementation of the archive.Archive interface
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) StorePrimerSet(
	ctx context.Context,
	name string,
	content []byte,
) (string, error) {
	args := m.Called(ctx, name, content)

	return args.String(0), args.Error(1)
}

func (m *MockArchive) GetPrimerSet(
	ctx context.Context,
	name, versionHash string,
) ([]byte, error) {
	args := m.Called(ctx, name, versionHash)
	content, _ := args.Get(0).([]byte)

	return content, args.Error(1)
}

func (m *MockArchive) DeletePrimerSet(
	ctx context.Context,
	name, versionHash string,
) error {
	args := m.Called(ctx, name, versionHash)

	return args.Error(0)
}

func setupTestDB(t *testing.T) *orm.DB {
	t.Helper()

	db, err := orm.InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "primers.db"),
	})
	require.NoError(t, err, "Failed to create database")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()

	require.Error(t, err)
	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr, "expected a ServiceError, got %T: %v", err, err)
	require.Equal(t, code, serviceErr.Code, "unexpected code for: %v", err)
}
