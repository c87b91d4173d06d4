// Package media manages uploaded video and thumbnail files on disk.
package media

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/clipstream/clipstream-server/internal/id"
)

// Category is a logical kind of uploaded file, mapped to its own
// subdirectory under the uploads root.
type Category string

const (
	// CategoryVideo stores uploaded video files.
	CategoryVideo Category = "videos"
	// CategoryThumbnail stores uploaded thumbnail images.
	CategoryThumbnail Category = "thumbnails"
)

// defaultExt returns the extension used when the source name has none.
func (c Category) defaultExt() string {
	if c == CategoryThumbnail {
		return ".jpg"
	}
	return ".mp4"
}

// URLPrefix is the static-serving prefix mirroring the uploads layout.
// A file saved as videos/abc.mp4 is retrievable at /static/videos/abc.mp4.
const URLPrefix = "/static"

// SavedFile describes a persisted upload.
type SavedFile struct {
	Name string // Generated filename, e.g. V1StGXR8_Z5jdHi6B-myT.mp4
	Path string // Absolute filesystem path
	URL  string // Static-serving URL, e.g. /static/videos/V1StGXR8_Z5jdHi6B-myT.mp4
}

// Storage manages upload filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	root string
	mu   sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at the uploads directory, creating
// the per-category subdirectories if needed.
func NewStorage(root string) (*Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("uploads root cannot be empty")
	}

	for _, category := range []Category{CategoryVideo, CategoryThumbnail} {
		dir := filepath.Join(root, string(category))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", category, err)
		}
	}

	return &Storage{root: root}, nil
}

// Root returns the uploads root directory.
func (s *Storage) Root() string {
	return s.root
}

// Save persists an uploaded payload under a collision-resistant generated
// filename, preserving the original extension (defaulting per category
// when the source name has none). Returns the saved file's name, path and
// static URL. Partial writes are not rolled back.
func (s *Storage) Save(category Category, originalName string, data []byte) (*SavedFile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("payload cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = category.defaultExt()
	}

	token, err := id.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate filename: %w", err)
	}
	name := token + ext
	dst := filepath.Join(s.root, string(category), name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s file: %w", category, err)
	}

	return &SavedFile{
		Name: name,
		Path: dst,
		URL:  path.Join(URLPrefix, string(category), name),
	}, nil
}

// Open returns the filesystem path for a stored file, verifying the name
// cannot escape the category directory.
func (s *Storage) Open(category Category, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p := filepath.Join(s.root, string(category), name)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s not found: %s", category, name)
		}
		return "", fmt.Errorf("stat %s file: %w", category, err)
	}
	return p, nil
}

// Exists checks whether a stored file is present.
func (s *Storage) Exists(category Category, name string) bool {
	_, err := s.Open(category, name)
	return err == nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (s *Storage) Delete(category Category, name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name: %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.root, string(category), name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete %s file: %w", category, err)
	}
	return nil
}
