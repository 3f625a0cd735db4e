// Package osfilesystem implements ports.FileSystem on the os package.
package osfilesystem

import (
	"io"
	"os"
	"path/filepath"

	"github.com/user/vaencoder/pkg/ports"
)

// FileSystem implements ports.FileSystem.
type FileSystem struct{}

// New creates a FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (fs *FileSystem) WriteFile(path string, data []byte) error {
	if err := fs.mkdirParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (fs *FileSystem) Create(path string) (io.WriteCloser, error) {
	if err := fs.mkdirParent(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (fs *FileSystem) mkdirParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (fs *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

var _ ports.FileSystem = (*FileSystem)(nil)
