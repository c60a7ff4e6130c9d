// Package resource resolves script names to the bytes bundled with the binary.
package resource

import (
	"errors"
	"io"
	"sort"
	"strings"
)

// ErrNotFound is returned when no resource is bundled under the requested name.
var ErrNotFound = errors.New("resource not found")

// Loader opens a named resource. Implementations must be safe for concurrent use.
type Loader interface {
	Load(name string) (io.ReadCloser, error)
}

// MapLoader serves resources from memory, keyed by name.
type MapLoader map[string]string

var _ Loader = MapLoader(nil)

func (m MapLoader) Load(name string) (io.ReadCloser, error) {
	s, ok := m[name]
	if !ok {
		return nil, notFound(name)
	}
	return io.NopCloser(strings.NewReader(s)), nil
}

// List returns the names held by m in lexical order.
func (m MapLoader) List() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type notFoundError struct {
	name string
}

func (e *notFoundError) Error() string { return "resource not found: " + e.name }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(name string) error {
	return &notFoundError{name: name}
}
