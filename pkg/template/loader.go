package template

import (
	"errors"
	"io/fs"
	"os"
)

// Loader resolves a template name to its source.
type Loader interface {
	Load(name string) (string, error)
}

// MemoryLoader serves templates from a map.
type MemoryLoader map[string]string

func (m MemoryLoader) Load(name string) (string, error) {
	if s, ok := m[name]; ok {
		return s, nil
	}
	return "", ErrTemplateNotFound{name}
}

// DirLoader serves templates from a file system, typically a directory.
type DirLoader struct {
	FS fs.FS
}

// NewDirLoader returns a loader reading templates below dir.
func NewDirLoader(dir string) DirLoader {
	return DirLoader{FS: os.DirFS(dir)}
}

func (d DirLoader) Load(name string) (string, error) {
	b, err := fs.ReadFile(d.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrTemplateNotFound{name}
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type ErrTemplateNotFound struct{ Name string }

func (e ErrTemplateNotFound) Error() string { return "template not found: " + e.Name }
