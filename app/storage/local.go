package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var _ Storage = (*LocalStorage)(nil)

// LocalStorage persists objects under a base directory on the local
// filesystem. Writes go to a temporary file in the target directory and are
// renamed into place, so readers never observe a partial object.
type LocalStorage struct {
	base       string
	appendFile *os.File
}

// NewLocalStorage creates a LocalStorage rooted at an existing directory.
func NewLocalStorage(base string) (*LocalStorage, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("storage base %q: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage base %q is not a directory", base)
	}
	return &LocalStorage{base: base}, nil
}

func (s *LocalStorage) pathify(path []string) string {
	return filepath.Join(append([]string{s.base}, path...)...)
}

func (s *LocalStorage) Exists(path []string) bool {
	_, err := os.Stat(s.pathify(path))
	return err == nil
}

func (s *LocalStorage) Make(path []string, existOK bool) error {
	target := s.pathify(path)
	if _, err := os.Stat(target); err == nil {
		if !existOK {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, strings.Join(path, "/"))
		}
		return nil
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	return nil
}

func (s *LocalStorage) WriteJSON(path []string, content any) error {
	text, err := encode(content)
	if err != nil {
		return err
	}
	return s.atomicWrite(path, text)
}

func (s *LocalStorage) ReadJSON(path []string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.pathify(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(path, "/"))
		}
		return nil, fmt.Errorf("failed to read %s: %w", strings.Join(path, "/"), err)
	}
	return decodeDocument(data)
}

func (s *LocalStorage) WriteText(path []string, content string) error {
	return s.atomicWrite(path, content)
}

// atomicWrite stages content next to the target and renames it into place.
func (s *LocalStorage) atomicWrite(path []string, content string) error {
	target := s.pathify(path)
	tmp, err := os.CreateTemp(filepath.Dir(target), ".write-*")
	if err != nil {
		return fmt.Errorf("failed to stage write for %s: %w", target, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to flush %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

func (s *LocalStorage) OpenAppend(path []string) error {
	if s.appendFile != nil {
		return ErrSessionOpen
	}
	f, err := os.OpenFile(s.pathify(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open append session for %s: %w", strings.Join(path, "/"), err)
	}
	s.appendFile = f
	return nil
}

func (s *LocalStorage) AppendLine(content any) error {
	if s.appendFile == nil {
		return fmt.Errorf("storage: no append session open")
	}
	line, err := encodeLine(content)
	if err != nil {
		return err
	}
	if _, err := s.appendFile.WriteString(line); err != nil {
		return fmt.Errorf("failed to append: %w", err)
	}
	return nil
}

func (s *LocalStorage) CloseAppend() error {
	if s.appendFile == nil {
		return nil
	}
	err := s.appendFile.Close()
	s.appendFile = nil
	if err != nil {
		return fmt.Errorf("failed to close append session: %w", err)
	}
	return nil
}

func (s *LocalStorage) List(pattern []string) ([][]string, error) {
	var matches [][]string
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.base, path)
		if err != nil {
			return err
		}
		segments := strings.Split(filepath.ToSlash(rel), "/")
		if matchPattern(pattern, segments) {
			matches = append(matches, segments)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", strings.Join(pattern, "/"), err)
	}
	sortPaths(matches)
	return matches, nil
}

func (s *LocalStorage) RemoveTree(path []string) error {
	// RemoveAll retries directory removal as children disappear, which
	// covers the non-empty-directory race the contract requires.
	if err := os.RemoveAll(s.pathify(path)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", strings.Join(path, "/"), err)
	}
	return nil
}
