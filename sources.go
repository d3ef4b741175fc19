package xsl

import (
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Sources resolves the references a stylesheet makes to supplemental
// resources: xsl:import, xsl:include and document() calls. Resolve
// should be idempotent for the same inputs within one call.
type Sources interface {
	Resolve(ref, base string) (io.ReadCloser, error)
}

// NoSources reports every reference as not found. It is the default
// resolver of a sheet.
func NoSources() Sources {
	return emptySources{}
}

type emptySources struct{}

func (_ emptySources) Resolve(ref, _ string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
}

// DirSources resolves relative references against a directory.
func DirSources(dir string) Sources {
	return dirSources{
		dir: dir,
	}
}

type dirSources struct {
	dir string
}

func (s dirSources) Resolve(ref, _ string) (io.ReadCloser, error) {
	if !filepath.IsLocal(ref) {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	r, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(ref)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return r, nil
}

func (s dirSources) ContextDir() string {
	return s.dir
}

// MapSources resolves references from an in memory set. The given map
// is copied.
func MapSources(set map[string]string) Sources {
	return mapSources(maps.Clone(set))
}

type mapSources map[string]string

func (s mapSources) Resolve(ref, _ string) (io.ReadCloser, error) {
	body, ok := s[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (s mapSources) Names() []string {
	list := slices.Collect(maps.Keys(s))
	slices.Sort(list)
	return list
}

// FSSources resolves references from anything behind an fs.FS.
func FSSources(fsys fs.FS) Sources {
	return fsSources{
		fsys: fsys,
	}
}

type fsSources struct {
	fsys fs.FS
}

func (s fsSources) Resolve(ref, _ string) (io.ReadCloser, error) {
	r, err := s.fsys.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return r, nil
}

func (s fsSources) Names() []string {
	var list []string
	fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			list = append(list, path)
		}
		return nil
	})
	return list
}
