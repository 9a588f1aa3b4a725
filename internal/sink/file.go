package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// pendingFile is an output file written under a temporary name in the
// destination directory. commit renames it into place and abort removes it,
// leaving any previous artifact at path untouched.
type pendingFile struct {
	*os.File
	path string
}

func createPending(path string) (*pendingFile, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &pendingFile{File: f, path: path}, nil
}

func (p *pendingFile) commit() error {
	if err := p.Chmod(0o644); err != nil {
		return errors.Join(err, p.abort())
	}
	if err := p.File.Close(); err != nil {
		return errors.Join(err, os.Remove(p.Name()))
	}
	if err := os.Rename(p.Name(), p.path); err != nil {
		return errors.Join(fmt.Errorf("rename to %s: %w", p.path, err), os.Remove(p.Name()))
	}
	return nil
}

func (p *pendingFile) abort() error {
	return errors.Join(p.File.Close(), os.Remove(p.Name()))
}
