package services

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"siteinspect_backend/internal/logger"
	"siteinspect_backend/internal/storage"

	"github.com/google/uuid"
)

// FileConfig задает каталоги хранилища и лимит размера загрузок.
type FileConfig struct {
	PDFDir      string
	PhotoDir    string
	MaxFileSize int64
}

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		PDFDir:      "pdfs",
		PhotoDir:    "photos",
		MaxFileSize: 20 * 1024 * 1024, // 20MB
	}
}

// FormatFileSize formats a byte count using binary prefixes. Bytes are shown
// without decimals, everything above with two.
func FormatFileSize(sizeInBytes int64) string {
	size := float64(sizeInBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024.0 || unit == "TB" {
			if unit == "B" {
				return fmt.Sprintf("%d %s", int64(size), unit)
			}
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return ""
}

// uniqueFilename prefixes the original name with a random token so concurrent
// uploads of the same file never collide.
func uniqueFilename(original string) string {
	return fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(original))
}

// uploadPath builds a storage-relative path inside dir.
func uploadPath(dir, originalFilename string) string {
	return path.Join(dir, uniqueFilename(originalFilename))
}

// removeFileIfExists удаляет файл, на который указывает запись.
// Сбой удаления (файл исчез, нет прав) логируется и не прерывает операцию:
// БД и диск могут расходиться в сторону "файл отсутствует".
func removeFileIfExists(ctx context.Context, store storage.Storage, filePath string) {
	if filePath == "" {
		return
	}

	exists, err := store.Exists(ctx, filePath)
	if err != nil {
		logger.FileWarn("stat", filePath, err)
		return
	}
	if !exists {
		return
	}

	if err := store.Delete(ctx, filePath); err != nil {
		logger.FileWarn("delete", filePath, err)
	}
}
