package inventory

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
	"github.com/matzehuels/depsize/pkg/pyenv"
)

// PackageDir returns the directory a distribution is expected to install
// its code into: the safe form of the project name taken from the metadata
// entry, under the distribution location. For "pygments-2.19.2.dist-info"
// declaring "Name: Pygments" that is <location>/pygments.
func PackageDir(d *pyenv.Distribution) string {
	return filepath.Join(d.Location, pyenv.SafeName(d.ProjectName))
}

// PackageSize looks name up in env and returns the byte size of its
// package directory. The result is all-or-nothing: any error while walking
// discards the partial sum.
func PackageSize(env Lookup, name string) (int64, error) {
	d, err := env.Get(name)
	if err != nil {
		return 0, err
	}

	dir := PackageDir(d)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, deperrors.New(deperrors.ErrCodeFileNotFound, "Package directory '%s' does not exist.", dir)
		}
		return 0, deperrors.Wrap(deperrors.ErrCodeFileNotFound, err, "stat %s", dir)
	}
	return DirSize(dir)
}

// DirSize sums the size of every file below root. Symlinks to files count
// with their target's size; symlinked directories are not descended. A
// root that is not a directory sums to zero.
func DirSize(root string) (int64, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, nil
	}

	var total int64
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		total += fi.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
