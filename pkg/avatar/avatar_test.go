package avatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Set(ctx context.Context, accountID string, image []byte) error {
	args := m.Called(ctx, accountID, image)
	return args.Error(0)
}

// pngHeader is enough for http.DetectContentType to call it an image.
var pngHeader = []byte("\x89PNG\r\n\x1a\n" + "fakeimagedata")

func TestImporter_Import(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fetches and stores", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngHeader)
		}))
		defer srv.Close()

		store := &MockStore{}
		store.On("Set", mock.Anything, "alice", pngHeader).Return(nil)

		imp := NewImporter(store)
		require.NoError(t, imp.Import(ctx, "alice", srv.URL))
		store.AssertExpectations(t)
	})

	t.Run("non-200 response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		store := &MockStore{}
		imp := NewImporter(store)

		err := imp.Import(ctx, "alice", srv.URL)
		require.ErrorIs(t, err, ErrFetchFailed)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-image content type", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>not an image</html>"))
		}))
		defer srv.Close()

		imp := NewImporter(&MockStore{})
		assert.ErrorIs(t, imp.Import(ctx, "alice", srv.URL), ErrNotAnImage)
	})

	t.Run("image over size cap", func(t *testing.T) {
		t.Parallel()

		big := make([]byte, 2048)
		copy(big, pngHeader)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(big)
		}))
		defer srv.Close()

		imp := NewImporter(&MockStore{}, WithMaxSize(1024))
		assert.ErrorIs(t, imp.Import(ctx, "alice", srv.URL), ErrTooLarge)
	})

	t.Run("unreachable host", func(t *testing.T) {
		t.Parallel()

		// A server that is already closed refuses the connection.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		imp := NewImporter(&MockStore{})
		assert.Error(t, imp.Import(ctx, "alice", srv.URL))
	})
}

func TestLocalStore(t *testing.T) {
	t.Parallel()

	t.Run("writes avatar file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		require.NoError(t, store.Set(context.Background(), "google-1", pngHeader))

		data, err := os.ReadFile(filepath.Join(dir, "google-1"))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("overwrite keeps newest", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "google-1", []byte("old")))
		require.NoError(t, store.Set(ctx, "google-1", []byte("new")))

		data, err := os.ReadFile(filepath.Join(dir, "google-1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
	})

	t.Run("sanitizes account id in path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		require.NoError(t, store.Set(context.Background(), "../evil", []byte("x")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ".._evil", entries[0].Name())
	})

	t.Run("empty dir rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewLocalStore("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
