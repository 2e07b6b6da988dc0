package i18n

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Source reads one resource layer. Read reports found=false for a missing
// file; that is not an error.
type Source interface {
	Read(ctx context.Context, name string) (data []byte, found bool, err error)
	Name() string
}

// Dir is a Source backed by a directory of .ini files.
type Dir string

func (d Dir) Read(_ context.Context, name string) ([]byte, bool, error) {
	if d == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(filepath.Join(string(d), name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (d Dir) Name() string { return string(d) }

// Path returns the on-disk location of name, used in error messages.
func (d Dir) Path(name string) string { return filepath.Join(string(d), name) }
