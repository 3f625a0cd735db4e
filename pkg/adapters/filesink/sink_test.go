package filesink

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/vaencoder/pkg/mocks"
)

var testBaseDir = filepath.Join("out")

func TestFrameSink_WriteFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink, err := NewFrameSink(testBaseDir, "jpg", fs)
	if err != nil {
		t.Fatalf("NewFrameSink failed: %v", err)
	}

	if exists, _ := fs.Exists(testBaseDir); !exists {
		t.Error("expected output dir to be created")
	}

	if err := sink.WriteFrame(3, []byte{0xff, 0xd8, 0xff}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frame-0003.jpg")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if len(saved) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(saved))
	}
	if err := sink.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestFrameSink_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}
	sink, _ := NewFrameSink(testBaseDir, "jpg", fs)

	if err := sink.WriteFrame(0, []byte{1}); err == nil {
		t.Error("expected error to propagate")
	}
}

func TestStreamSink_AppendsInOrder(t *testing.T) {
	fs := mocks.NewFileSystem()
	path := filepath.Join(testBaseDir, "out.h263")
	sink, err := NewStreamSink(path, fs)
	if err != nil {
		t.Fatalf("NewStreamSink failed: %v", err)
	}

	sink.WriteFrame(0, []byte("ab"))
	sink.WriteFrame(1, []byte("cde"))
	if sink.Written() != 5 {
		t.Errorf("expected 5 bytes written, got %d", sink.Written())
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	saved, ok := fs.GetFile(path)
	if !ok {
		t.Fatal("expected stream file")
	}
	if string(saved) != "abcde" {
		t.Errorf("expected %q, got %q", "abcde", saved)
	}
}
