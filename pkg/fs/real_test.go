package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dirdoc/dirdoc/pkg/fs"
)

func Test_WriteFileAtomic_Creates_File_With_Contents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	fsys := fs.NewReal()

	err := fsys.WriteFileAtomic(path, []byte("hello"), 0o600)
	if err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if string(data) != "hello" {
		t.Fatalf("contents = %q, want %q", data, "hello")
	}
}

func Test_WriteFileAtomic_Replaces_Existing_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	fsys := fs.NewReal()

	if err := fsys.WriteFileAtomic(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("first write: %v", err)
	}

	if err := fsys.WriteFileAtomic(path, []byte("new"), 0o600); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if string(data) != "new" {
		t.Fatalf("contents = %q, want %q", data, "new")
	}
}

func Test_WriteFileAtomic_Leaves_No_Temp_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewReal()

	err := fsys.WriteFileAtomic(filepath.Join(dir, "data.bin"), []byte("x"), 0o600)
	if err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want 1", len(entries))
	}
}

func Test_Exists_Distinguishes_Missing_From_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewReal()

	ok, err := fsys.Exists(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("Exists(missing): %v", err)
	}

	if ok {
		t.Fatal("missing path reported as existing")
	}

	path := filepath.Join(dir, "present")
	if writeErr := os.WriteFile(path, []byte("x"), 0o600); writeErr != nil {
		t.Fatalf("write: %v", writeErr)
	}

	ok, err = fsys.Exists(path)
	if err != nil {
		t.Fatalf("Exists(present): %v", err)
	}

	if !ok {
		t.Fatal("present path reported as missing")
	}
}
