package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LocalStorage persists uploaded files on disk under a base directory, one
// subdirectory per owner.
type LocalStorage struct {
	baseDir string
}

// StoredFile describes a file kept in local storage.
type StoredFile struct {
	Name         string    `json:"name"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	ModifiedAt   time.Time `json:"modifiedAt"`
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes the given bytes under owner/filename, prefixing the stored name
// with a timestamp so repeated uploads never collide.
func (s *LocalStorage) Save(owner, filename string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitize(filename))
	path := s.resolve(owner, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}

// ReadFile returns the contents of a stored file.
func (s *LocalStorage) ReadFile(owner, name string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(owner, name))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// List enumerates an owner's stored files, newest first.
func (s *LocalStorage) List(owner string) ([]StoredFile, error) {
	dir := filepath.Join(s.baseDir, sanitize(owner))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{
			Name:         entry.Name(),
			OriginalName: stripTimestamp(entry.Name()),
			Size:         info.Size(),
			ModifiedAt:   info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ModifiedAt.After(files[j].ModifiedAt) })
	return files, nil
}

// Delete removes the named files, returning how many were actually deleted.
func (s *LocalStorage) Delete(owner string, names []string) int {
	deleted := 0
	for _, name := range names {
		if err := os.Remove(s.resolve(owner, name)); err == nil {
			deleted++
		}
	}
	return deleted
}

func (s *LocalStorage) resolve(owner, name string) string {
	return filepath.Join(s.baseDir, sanitize(owner), sanitize(name))
}

func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "_"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func stripTimestamp(name string) string {
	if i := strings.Index(name, "-"); i > 0 {
		if _, err := fmt.Sscanf(name[:i], "%d", new(int64)); err == nil {
			return name[i+1:]
		}
	}
	return name
}
