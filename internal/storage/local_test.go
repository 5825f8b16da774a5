package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(Config{
		Type:     "local",
		BasePath: filepath.Join(t.TempDir(), "uploads"),
		PDFDir:   "pdfs",
		PhotoDir: "photos",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStorageCreatesArtifactDirs(t *testing.T) {
	store := newTestLocalStorage(t)

	for _, dir := range []string{"pdfs", "photos"} {
		info, err := os.Stat(filepath.Join(store.BasePath(), dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestLocalStorageSaveGet(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	err := store.Save(ctx, "pdfs/report.pdf", strings.NewReader("report body"), "application/pdf")
	require.NoError(t, err)

	reader, err := store.Get(ctx, "pdfs/report.pdf")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(data))
}

func TestLocalStorageSaveCreatesNestedDirs(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	err := store.Save(ctx, "photos/2024/03/site.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "photos/2024/03/site.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorageExistsAndSize(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "pdfs/missing.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(ctx, "pdfs/report.pdf", strings.NewReader("0123456789"), "application/pdf"))

	exists, err = store.Exists(ctx, "pdfs/report.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := store.Size(ctx, "pdfs/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
}

func TestLocalStorageDelete(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "photos/site.jpg", strings.NewReader("x"), "image/jpeg"))
	require.NoError(t, store.Delete(ctx, "photos/site.jpg"))

	exists, err := store.Exists(ctx, "photos/site.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	// Повторное удаление сообщает об отсутствии файла
	assert.Error(t, store.Delete(ctx, "photos/site.jpg"))
}
