package ports

import "io"

// FileSystem abstracts the file operations of the sample program.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating parent directories.
	WriteFile(path string, data []byte) error

	// Create opens a file for streaming writes, truncating it.
	Create(path string) (io.WriteCloser, error)

	MkdirAll(path string) error
	Exists(path string) (bool, error)
}
