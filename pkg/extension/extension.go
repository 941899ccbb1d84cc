// Package extension turns an extension reference into a directory the
// browser can load with --load-extension.
//
// A reference is either a packed archive (.zip or .crx) or an unpacked
// directory. Archives are extracted into a fresh temporary directory that
// is kept for the session; removing it is the launcher's job.
package extension

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/entrhq/launchpad/pkg/types"
)

// TempPrefix names extraction directories: <tmp>/extension_<uuid>.
const TempPrefix = "extension_"

var manifestPattern = glob.MustCompile("manifest.*")

// Logger receives resolution diagnostics.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Resolver resolves extension references.
type Resolver struct {
	// TempDir is where archives are extracted. Empty means os.TempDir().
	TempDir string

	Logger Logger
}

// NewResolver returns a Resolver extracting into the system temp directory.
func NewResolver(logger Logger) *Resolver {
	return &Resolver{Logger: logger}
}

// Resolve returns a loadable extension directory for path.
//
// A missing path fails with types.ErrNotFound. A regular file is extracted
// as an archive. A directory is searched breadth-first for a manifest.*
// entry, names visited in lexical order within each level, and the
// directory holding the first match is returned. A directory with no
// manifest is returned as is.
func (r *Resolver) Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", types.NewError(types.KindNotFound, "resolve extension", path, "could not find anything here")
		}
		return "", types.WrapError(types.KindIO, "resolve extension", path, err)
	}

	if info.IsDir() {
		return r.findManifestDir(path)
	}
	return r.extract(path)
}

// extract unpacks an archive into a new directory, removing it again on
// any failure.
func (r *Resolver) extract(archive string) (string, error) {
	base := r.TempDir
	if base == "" {
		base = os.TempDir()
	}

	dir := filepath.Join(base, TempPrefix+uuid.New().String())
	// Mkdir, not MkdirAll: an existing directory is a collision, not a reuse
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", types.WrapError(types.KindIO, "create extension dir", dir, err)
	}

	if err := unpack(archive, dir); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}

	r.debugf("extracted %s to %s", archive, dir)
	return dir, nil
}

func (r *Resolver) findManifestDir(root string) (string, error) {
	queue := []string{root}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		// ReadDir returns entries sorted by filename
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", types.WrapError(types.KindIO, "search extension", dir, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() && manifestPattern.Match(entry.Name()) {
				r.debugf("found %s in %s", entry.Name(), dir)
				return dir, nil
			}
		}
		for _, entry := range entries {
			if entry.IsDir() {
				queue = append(queue, filepath.Join(dir, entry.Name()))
			}
		}
	}

	if r.Logger != nil {
		r.Logger.Warnf("no manifest found under %s, using the directory as is", root)
	}
	return root, nil
}

func (r *Resolver) debugf(format string, v ...interface{}) {
	if r.Logger != nil {
		r.Logger.Debugf(format, v...)
	}
}
