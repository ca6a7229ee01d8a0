package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a.wav", "b.mp3", "notes.txt", "UPPER.WAV",
		"sub/c.flac", "sub/d.ogg", "sub/deeper/e.m4a", "sub/deeper/f.opus",
		"sub/g.aiff", "sub/wav",
	)

	got, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	var want []string
	for _, name := range []string{
		"a.wav", "b.mp3", "sub/c.flac", "sub/d.ogg", "sub/deeper/e.m4a", "sub/deeper/f.opus",
	} {
		want = append(want, filepath.Join(root, name))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan =\n%v\nwant\n%v", got, want)
	}
}

func TestScanEmpty(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "readme.md", "sub/x.WAV")

	_, err := Scan(root)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("err = %v, want ErrEmptyDataset", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestScanSkipsUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 000 directories")
	}
	root := t.TempDir()
	touch(t, root, "a.wav", "locked/b.wav", "z/c.flac")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	got, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{filepath.Join(root, "a.wav"), filepath.Join(root, "z", "c.flac")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %v, want %v", got, want)
	}
}

// dirEntry is a minimal fs.DirEntry for driving scanner.visit directly.
type dirEntry struct {
	name string
	dir  bool
}

func (e dirEntry) Name() string               { return e.name }
func (e dirEntry) IsDir() bool                { return e.dir }
func (e dirEntry) Type() fs.FileMode          { return 0 }
func (e dirEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrPermission }

func TestScannerVisitErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		d    fs.DirEntry
		want error
	}{
		{"unreadable root", "root", nil, fs.ErrPermission},
		{"unreadable root listing", "root", dirEntry{"root", true}, fs.ErrPermission},
		{"unreadable subdir", "root/lost+found", dirEntry{"lost+found", true}, fs.SkipDir},
		{"unreadable file", "root/a.wav", dirEntry{"a.wav", false}, nil},
		{"vanished entry", "root/gone", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scanner{root: "root"}
			if got := s.visit(tt.path, tt.d, fs.ErrPermission); got != tt.want {
				t.Errorf("visit = %v, want %v", got, tt.want)
			}
			if len(s.files) != 0 {
				t.Errorf("files = %v, want none", s.files)
			}
		})
	}
}

func TestNewFromDirectory(t *testing.T) {
	_, err := New(t.TempDir(), Options{})
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}
