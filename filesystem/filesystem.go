// Package filesystem is the single entry point to the disk.
//
// Every store in reelfeed (config, history, logs, caches, outbox) goes through API(),
// so tests can swap the backend for an in-memory one.
package filesystem

import (
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

func API() afero.Afero {
	return backend
}

// SetOsFs switches back to the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to an empty in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// WriteAtomic writes path through a temporary sibling and renames it into place,
// so readers see either the old or the new content.
func WriteAtomic(path string, write func(io.Writer) error) error {
	fs := API()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := fs.Create(tmp)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return err
	}

	return fs.Rename(tmp, path)
}
