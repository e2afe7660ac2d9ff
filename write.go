package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// writeFile replaces filename with whatever write produces. The data
// goes to a temporary file next to the target first, which is then
// renamed over it, so a failed write leaves the original intact.
// Symlinks are followed; the link itself is kept. The target must be
// writable, as it would be for an in-place overwrite.
func writeFile(filename string, perm fs.FileMode, write func(io.Writer) error) (err error) {
	target, err := filepath.EvalSymlinks(filename)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	f.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".dtstrip-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
