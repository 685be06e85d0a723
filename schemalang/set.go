package schemalang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tasprorepo/pgmodeler"
)

// ErrNoTemplate is returned when a set has no template for an object
// type.
var ErrNoTemplate = errors.New("schemalang: no template for object type")

// Set holds parsed templates keyed by object type. A set is loaded
// from a directory of <type>.sch files.
type Set struct {
	templates map[pgmodeler.ObjectType]*Template
}

// NewSet creates an empty template set.
func NewSet() *Set {
	return &Set{templates: make(map[pgmodeler.ObjectType]*Template)}
}

// Add registers a template for an object type, replacing any previous
// one.
func (s *Set) Add(typ pgmodeler.ObjectType, tmpl *Template) {
	s.templates[typ] = tmpl
}

// Lookup returns the template for an object type.
func (s *Set) Lookup(typ pgmodeler.ObjectType) (*Template, error) {
	tmpl, ok := s.templates[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTemplate, typ)
	}

	return tmpl, nil
}

// Render evaluates the template for an object type against an
// attribute map.
func (s *Set) Render(typ pgmodeler.ObjectType, attribs pgmodeler.AttribMap) (string, error) {
	tmpl, err := s.Lookup(typ)
	if err != nil {
		return "", err
	}

	return tmpl.Render(attribs), nil
}

// Types returns the object types the set has templates for.
func (s *Set) Types() []pgmodeler.ObjectType {
	types := make([]pgmodeler.ObjectType, 0, len(s.templates))
	for typ := range s.templates {
		types = append(types, typ)
	}

	return types
}

// LoadSet parses every <type>.sch file in a directory into a set.
// Files whose basename is not a known object type are ignored.
func LoadSet(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	set := NewSet()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sch") {
			continue
		}

		typ, err := pgmodeler.ParseObjectType(strings.TrimSuffix(entry.Name(), ".sch"))
		if err != nil {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, err
		}

		tmpl, err := Parse(path, string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		set.Add(typ, tmpl)
	}

	return set, nil
}
