// Package cleanup removes uploaded files when a duplicate import is
// cancelled, without ever touching a file that already belongs to an
// existing transaction.
package cleanup

import (
	"fmt"
	"os"
	"strings"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
)

// FileStore abstracts the storage backend holding uploaded files.
// Implementations must delete atomically: the file is either fully removed
// or left untouched.
type FileStore interface {
	Delete(url string) error
}

// LocalFileStore deletes files on the local filesystem. URLs may be plain
// paths or file:// URLs.
type LocalFileStore struct{}

// Delete removes the file at the given location. os.Remove is atomic on the
// filesystems we target.
func (LocalFileStore) Delete(url string) error {
	path := strings.TrimPrefix(url, "file://")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}

// Manager decides and performs upload cleanup after a cancelled import.
type Manager struct {
	files  FileStore
	logger logging.Logger
}

// NewManager creates a Manager over the given file store.
func NewManager(files FileStore, logger logging.Logger) *Manager {
	return &Manager{files: files, logger: logger}
}

// ShouldCleanupFile reports whether the newly uploaded file may be deleted.
// The same URL means the file was already associated with the existing
// transaction and must not be removed.
func (m *Manager) ShouldCleanupFile(newFileURL, existingTransactionURL string) bool {
	return newFileURL != "" && newFileURL != existingTransactionURL
}

// CleanupUploadedFile deletes the file at the given storage location. A
// failure is logged and returned as a non-fatal warning; the cancellation
// itself still succeeds.
func (m *Manager) CleanupUploadedFile(fileURL string) error {
	if err := m.files.Delete(fileURL); err != nil {
		m.logger.WithError(err).WithField(logging.FieldFileURL, fileURL).
			Warn("Failed to clean up uploaded file")
		return fmt.Errorf("cleanup of %s failed: %w", fileURL, err)
	}
	m.logger.WithField(logging.FieldFileURL, fileURL).Debug("Removed uploaded file")
	return nil
}
