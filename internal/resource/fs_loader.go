package resource

import (
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"

	"github.com/zeebo/blake3"
)

//go:embed scripts/*.sh
var bundled embed.FS

// FSLoader serves resources from an fs.FS.
type FSLoader struct {
	fsys fs.FS
}

var _ Loader = (*FSLoader)(nil)

// NewFSLoader returns a loader rooted at fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// Bundled returns a loader over the scripts compiled into the binary.
func Bundled() *FSLoader {
	sub, err := fs.Sub(bundled, "scripts")
	if err != nil {
		panic(fmt.Sprintf("bundled scripts: %v", err))
	}
	return NewFSLoader(sub)
}

func (l *FSLoader) Load(name string) (io.ReadCloser, error) {
	clean := path.Clean(name)
	if !fs.ValidPath(clean) || clean == "." {
		return nil, notFound(name)
	}
	f, err := l.fsys.Open(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("open resource %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat resource %s: %w", name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, notFound(name)
	}
	return f, nil
}

// List returns every regular file name under the loader root, sorted.
func (l *FSLoader) List() ([]string, error) {
	var out []string
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// Info describes one bundled resource.
type Info struct {
	Name   string
	Size   int64
	Digest string
}

// Describe returns the size and hex BLAKE3-256 digest of the named resource.
func (l *FSLoader) Describe(name string) (Info, error) {
	rc, err := l.Load(name)
	if err != nil {
		return Info{}, err
	}
	defer rc.Close()

	h := blake3.New()
	n, err := io.Copy(h, rc)
	if err != nil {
		return Info{}, fmt.Errorf("hash resource %s: %w", name, err)
	}
	return Info{Name: name, Size: n, Digest: hex.EncodeToString(h.Sum(nil))}, nil
}
