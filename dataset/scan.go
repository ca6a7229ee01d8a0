package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/neurlang/ftdata/audio"
)

// Scan recursively finds audio files under root in lexical order.
// Unreadable entries below root are skipped. It fails with ErrEmptyDataset
// when root cannot be read or no files are found.
func Scan(root string) ([]string, error) {
	s := scanner{root: root}
	if err := filepath.WalkDir(root, s.visit); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %w", ErrEmptyDataset, root, err)
	}
	if len(s.files) == 0 {
		return nil, fmt.Errorf("%w: no audio files under %s", ErrEmptyDataset, root)
	}
	return s.files, nil
}

type scanner struct {
	root  string
	files []string
}

func (s *scanner) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == s.root {
			return err
		}
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}
	if !d.IsDir() && isAudio(d.Name()) {
		s.files = append(s.files, path)
	}
	return nil
}

func isAudio(name string) bool {
	for _, ext := range audio.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
