// Package model accumulates imported catalog objects into an in-memory
// database model that can be serialized to XML or rendered to SQL
// through schema templates.
package model

import (
	"context"
	"errors"
	"strings"

	"github.com/tasprorepo/pgmodeler"
	"github.com/tasprorepo/pgmodeler/importer"
	"github.com/tasprorepo/pgmodeler/schemalang"
)

// Object is one imported database object.
type Object struct {
	Type    pgmodeler.ObjectType
	OID     string
	Name    string
	Schema  string
	Comment string

	// System marks objects that belong to an extension. Their SQL
	// code is disabled so regenerating the database does not try to
	// recreate them.
	System      bool
	SQLDisabled bool

	Attribs pgmodeler.AttribMap
}

// Key returns the object's identity: "type::schema.name".
func (o *Object) Key() string {
	name := o.Name
	if o.Schema != "" {
		name = o.Schema + "." + name
	}

	return o.Type.String() + "::" + name
}

// Model is an ordered collection of imported objects. Objects keep the
// order they were added in, which for a Builder-fed model is import
// order.
type Model struct {
	Name string

	objects []*Object
	index   map[string]*Object
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{
		Name:  name,
		index: make(map[string]*Object),
	}
}

// Add appends an object. An object with the same key replaces the
// earlier one in place.
func (m *Model) Add(obj *Object) {
	key := obj.Key()

	if prev, ok := m.index[key]; ok {
		*prev = *obj

		return
	}

	m.objects = append(m.objects, obj)
	m.index[key] = obj
}

// Objects returns the objects in insertion order. Callers must not
// mutate the returned slice.
func (m *Model) Objects() []*Object {
	return m.objects
}

// ObjectsOfType returns the objects of one type in insertion order.
func (m *Model) ObjectsOfType(typ pgmodeler.ObjectType) []*Object {
	var out []*Object

	for _, obj := range m.objects {
		if obj.Type == typ {
			out = append(out, obj)
		}
	}

	return out
}

// Lookup finds an object by type, schema and name.
func (m *Model) Lookup(typ pgmodeler.ObjectType, schema, name string) (*Object, bool) {
	obj, ok := m.index[(&Object{Type: typ, Schema: schema, Name: name}).Key()]

	return obj, ok
}

// Len returns the number of objects.
func (m *Model) Len() int {
	return len(m.objects)
}

// SQL renders the model as a DDL script using the given schema template
// set. Objects with disabled SQL are emitted as comments; types without
// a template are left out.
func (m *Model) SQL(set *schemalang.Set) (string, error) {
	var b strings.Builder

	for _, obj := range m.objects {
		attribs := obj.Attribs.Merge(pgmodeler.AttribMap{
			pgmodeler.AttrName:   obj.Name,
			pgmodeler.AttrSchema: obj.Schema,
		})

		if obj.Comment != "" {
			attribs = attribs.Merge(pgmodeler.AttribMap{pgmodeler.AttrComment: obj.Comment})
		}

		out, err := set.Render(obj.Type, attribs)
		if err != nil {
			if errors.Is(err, schemalang.ErrNoTemplate) {
				continue
			}

			return "", err
		}

		out = strings.TrimSpace(out)
		if out == "" {
			continue
		}

		if obj.SQLDisabled {
			b.WriteString("-- " + obj.Key() + ": provided by extension\n\n")

			continue
		}

		b.WriteString(out)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}

// Builder is an importer.Handler that feeds imported objects into a
// model.
type Builder struct {
	model *Model
}

// NewBuilder creates a builder over the given model.
func NewBuilder(m *Model) *Builder {
	return &Builder{model: m}
}

// Model returns the model under construction.
func (b *Builder) Model() *Model {
	return b.model
}

// Event adds imported objects to the model. Other events are ignored.
func (b *Builder) Event(_ context.Context, event importer.Event, _ *importer.Result) error {
	if event.Action != importer.ActionImport {
		return nil
	}

	b.model.Add(&Object{
		Type:        event.Type,
		OID:         event.Object.OID,
		Name:        event.Object.Name,
		Schema:      event.Object.Schema,
		Comment:     event.Attribs[pgmodeler.AttrComment],
		System:      event.System,
		SQLDisabled: event.Attribs.Bool(pgmodeler.AttrSQLDisabled),
		Attribs:     event.Attribs,
	})

	return nil
}

// Err is a no-op.
func (b *Builder) Err(_ string) error {
	return nil
}
