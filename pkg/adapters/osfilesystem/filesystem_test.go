package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "test.txt")
	testData := []byte("hello world")

	if err := fs.WriteFile(testPath, testData); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "a", "b", "c", "test.txt")
	if err := fs.WriteFile(testPath, []byte("test")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("file should exist after write")
	}
}

func TestFileSystem_ExistsOnMissingPath(t *testing.T) {
	fs := New()

	exists, err := fs.Exists(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("missing file reported as existing")
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "test.txt")

	if err := fs.WriteFile(testPath, []byte("data")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.Remove(testPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	exists, _ := fs.Exists(testPath)
	if exists {
		t.Error("file should be gone after Remove")
	}
}

func TestFileSystem_RenameReplacesTarget(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	oldPath := filepath.Join(tmpDir, "new.mp4")
	newPath := filepath.Join(tmpDir, "video.mp4")
	if err := fs.WriteFile(newPath, []byte("original")); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile(oldPath, []byte("replacement")); err != nil {
		t.Fatal(err)
	}

	if err := fs.Rename(oldPath, newPath); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	data, err := os.ReadFile(newPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "replacement" {
		t.Errorf("target = %q, want replacement", data)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("source should be gone after Rename")
	}
}

func TestFileSystem_FileSize(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "test.bin")

	if err := fs.WriteFile(testPath, make([]byte, 1234)); err != nil {
		t.Fatal(err)
	}

	size, err := fs.FileSize(testPath)
	if err != nil {
		t.Fatalf("FileSize failed: %v", err)
	}
	if size != 1234 {
		t.Errorf("size = %d, want 1234", size)
	}

	if _, err := fs.FileSize(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("FileSize on missing file should fail")
	}
}
