package catalog

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.sql
var templateFS embed.FS

// QueryFlavor distinguishes the two query shapes every object type has.
type QueryFlavor string

// Query flavors.
const (
	// FlavorList retrieves oid + name (+ schema) per object.
	FlavorList QueryFlavor = "list"

	// FlavorAttribs retrieves the full attribute row per object.
	FlavorAttribs QueryFlavor = "attribs"
)

// QueryParams carries the substitutions a catalog query template may
// use. Empty fields mean "no filter"; templates guard each clause.
type QueryParams struct {
	// Schema restricts results to one schema.
	Schema string

	// Name restricts results to one object name.
	Name string

	// OidFilter is a comma-separated oid list for an IN (...) clause.
	OidFilter string

	// Oid selects a single object by oid (dependency lookups).
	Oid string

	// Extra carries template-specific substitutions.
	Extra map[string]string
}

// TemplateSet holds the named catalog queries of one backend dialect.
// Query names follow "<type>.<flavor>" (e.g. "table.list"), plus the
// auxiliary "comment", "comment.shared", "comment.column" and
// "from.extension" queries.
type TemplateSet struct {
	dialect string
	root    *template.Template
}

// templateFuncs are available inside catalog queries.
var templateFuncs = template.FuncMap{
	// lit renders a value as a quoted SQL string literal.
	"lit": func(s string) string {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	},
}

// LoadTemplates parses the embedded query file for a dialect.
func LoadTemplates(dialect string) (*TemplateSet, error) {
	data, err := templateFS.ReadFile("templates/" + dialect + ".sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTemplates, dialect)
	}

	root, err := template.New(dialect).Funcs(templateFuncs).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s catalog templates: %w", dialect, err)
	}

	return &TemplateSet{dialect: dialect, root: root}, nil
}

// ParseTemplates builds a set from raw template text. Used by tests and
// callers shipping their own catalog queries.
func ParseTemplates(dialect, text string) (*TemplateSet, error) {
	root, err := template.New(dialect).Funcs(templateFuncs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s catalog templates: %w", dialect, err)
	}

	return &TemplateSet{dialect: dialect, root: root}, nil
}

// Dialect returns the backend dialect this set serves.
func (s *TemplateSet) Dialect() string {
	return s.dialect
}

// Has reports whether a named query exists in the set.
func (s *TemplateSet) Has(name string) bool {
	return s.root.Lookup(name) != nil
}

// HasType reports whether the set carries the given flavor for an
// object type name.
func (s *TemplateSet) HasType(objType string, flavor QueryFlavor) bool {
	return s.Has(objType + "." + string(flavor))
}

// Render executes the named query template with the given parameters.
func (s *TemplateSet) Render(name string, params QueryParams) (string, error) {
	tmpl := s.root.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("%w: %s (%s)", ErrNoTemplate, name, s.dialect)
	}

	var sb strings.Builder

	err := tmpl.Execute(&sb, params)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	return strings.TrimSpace(sb.String()), nil
}

// RenderType renders the query for an object type and flavor.
func (s *TemplateSet) RenderType(objType string, flavor QueryFlavor, params QueryParams) (string, error) {
	return s.Render(objType+"."+string(flavor), params)
}
