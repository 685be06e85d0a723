// Package catalog reads database metadata from the system catalog. It
// is the basis for reverse engineering: a named query template is
// selected per object type, parameters are substituted, and the result
// rows are reshaped into attribute maps for the schema parser.
package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tasprorepo/pgmodeler"
)

// Catalog executes templated metadata queries over a database backend.
type Catalog struct {
	db        pgmodeler.Database
	templates *TemplateSet
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithTemplates overrides the embedded query templates, e.g. with a set
// tuned for a specific server version.
func WithTemplates(set *TemplateSet) Option {
	return func(c *Catalog) {
		c.templates = set
	}
}

// New creates a Catalog over the given backend. Unless overridden, the
// embedded template set matching the backend name is loaded.
func New(db pgmodeler.Database, opts ...Option) (*Catalog, error) {
	c := &Catalog{db: db}
	for _, opt := range opts {
		opt(c)
	}

	if c.templates == nil {
		set, err := LoadTemplates(db.Name())
		if err != nil {
			return nil, err
		}

		c.templates = set
	}

	return c, nil
}

// Templates returns the query template set in use.
func (c *Catalog) Templates() *TemplateSet {
	return c.templates
}

// Snapshot returns a catalog reading through a single read-only
// transaction when the backend supports one, so every query sees the
// same catalog state. The release function ends the transaction; for
// backends without transactions it is a no-op and the catalog itself
// is returned.
func (c *Catalog) Snapshot(ctx context.Context) (*Catalog, func(), error) {
	txDB, ok := c.db.(pgmodeler.Transactional)
	if !ok {
		return c, func() {}, nil
	}

	tx, err := txDB.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog snapshot: %w", err)
	}

	snap := &Catalog{
		db:        &txDatabase{name: c.db.Name(), tx: tx},
		templates: c.templates,
	}

	release := func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }

	return snap, release, nil
}

// txDatabase adapts an open transaction to the Database interface.
type txDatabase struct {
	name string
	tx   pgmodeler.Transaction
}

func (d *txDatabase) Name() string { return d.name }

func (d *txDatabase) Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	return d.tx.Execute(ctx, query, args...)
}

// Close is a no-op; the transaction is ended by the snapshot's release
// function.
func (d *txDatabase) Close() error { return nil }

// HasType reports whether the backend carries queries for an object
// type. Types without queries are skipped during import.
func (c *Catalog) HasType(typ pgmodeler.ObjectType) bool {
	return c.templates.HasType(typ.String(), FlavorList)
}

// query renders a named template and executes it, reshaping every row
// into an attribute map.
func (c *Catalog) query(ctx context.Context, name string, params QueryParams) ([]pgmodeler.AttribMap, error) {
	sql, err := c.templates.Render(name, params)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Execute(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("catalog query %s: %w", name, err)
	}

	attribs := make([]pgmodeler.AttribMap, len(rows))
	for i, row := range rows {
		attribs[i] = pgmodeler.Reshape(pgmodeler.RowToStrings(row))
	}

	return attribs, nil
}

// queryType renders and executes the query for an object type + flavor.
func (c *Catalog) queryType(ctx context.Context, typ pgmodeler.ObjectType, flavor QueryFlavor, params QueryParams) ([]pgmodeler.AttribMap, error) {
	return c.query(ctx, typ.String()+"."+string(flavor), params)
}

// ObjectCount returns the number of objects of a type, optionally
// restricted to one schema.
func (c *Catalog) ObjectCount(ctx context.Context, typ pgmodeler.ObjectType, schema string) (int, error) {
	sql, err := c.templates.RenderType(typ.String(), FlavorList, QueryParams{Schema: schema})
	if err != nil {
		return 0, err
	}

	rows, err := c.db.Execute(ctx, "SELECT count(*) AS count FROM ("+sql+") q")
	if err != nil {
		return 0, fmt.Errorf("catalog count %s: %w", typ, err)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	count, err := strconv.Atoi(pgmodeler.RowToStrings(rows[0])["count"])
	if err != nil {
		return 0, fmt.Errorf("catalog count %s: %w", typ, err)
	}

	return count, nil
}

// Objects returns the oid → name map for all objects of a type,
// optionally restricted to one schema.
func (c *Catalog) Objects(ctx context.Context, typ pgmodeler.ObjectType, schema string) (map[string]string, error) {
	refs, err := c.ListObjects(ctx, typ, schema)
	if err != nil {
		return nil, err
	}

	objects := make(map[string]string, len(refs))
	for _, ref := range refs {
		objects[ref.OID] = ref.Name
	}

	return objects, nil
}

// ListObjects returns references for all objects of a type in name
// order, optionally restricted to one schema.
func (c *Catalog) ListObjects(ctx context.Context, typ pgmodeler.ObjectType, schema string) ([]pgmodeler.ObjectRef, error) {
	rows, err := c.queryType(ctx, typ, FlavorList, QueryParams{Schema: schema})
	if err != nil {
		return nil, err
	}

	refs := make([]pgmodeler.ObjectRef, len(rows))
	for i, row := range rows {
		refs[i] = row.Ref(typ)
		if refs[i].Schema == "" {
			refs[i].Schema = schema
		}
	}

	pgmodeler.SortObjects(refs)

	return refs, nil
}

// Attributes returns the attribute map of a single object selected by
// name. Extra entries are passed to the query template as additional
// substitutions (e.g. "table" when fetching one column); a "schema"
// entry narrows the lookup to that schema.
func (c *Catalog) Attributes(ctx context.Context, typ pgmodeler.ObjectType, name string, extra pgmodeler.AttribMap) (pgmodeler.AttribMap, error) {
	params := QueryParams{Name: name, Extra: extra}
	if schema := extra[pgmodeler.AttrSchema]; schema != "" {
		params.Schema = schema
	}

	rows, err := c.queryType(ctx, typ, FlavorAttribs, params)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrObjectNotFound, typ, name)
	}

	return rows[0], nil
}

// MultipleAttributes returns attribute maps for every object of a type.
// Extra entries are passed to the query template as substitutions.
func (c *Catalog) MultipleAttributes(ctx context.Context, typ pgmodeler.ObjectType, extra pgmodeler.AttribMap) ([]pgmodeler.AttribMap, error) {
	return c.queryType(ctx, typ, FlavorAttribs, QueryParams{Extra: extra})
}

// SchemaAttributes returns attribute maps for every object of a type in
// one schema, with an optional oid filter.
func (c *Catalog) SchemaAttributes(ctx context.Context, typ pgmodeler.ObjectType, schema string, oids []string) ([]pgmodeler.AttribMap, error) {
	return c.queryType(ctx, typ, FlavorAttribs, QueryParams{
		Schema:    schema,
		OidFilter: pgmodeler.OidFilter(oids),
	})
}

// Comment returns the stored comment of the object with the given oid,
// or empty when none exists. Shared objects (databases, roles,
// tablespaces) live in a separate description catalog.
func (c *Catalog) Comment(ctx context.Context, oid string, shared bool) (string, error) {
	name := "comment"
	if shared {
		name = "comment.shared"
	}

	if !c.templates.Has(name) {
		return "", nil
	}

	rows, err := c.query(ctx, name, QueryParams{Oid: oid})
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return "", nil
	}

	return rows[0][pgmodeler.AttrComment], nil
}

// ColumnComment returns the stored comment of one table column,
// addressed by the table oid and the column's ordinal position, or
// empty when none exists. Columns carry synthetic
// "<table-oid>.<position>" identifiers that do not exist in the
// description catalog, so their comments need a dedicated lookup.
func (c *Catalog) ColumnComment(ctx context.Context, tableOid, position string) (string, error) {
	if !c.templates.Has("comment.column") {
		return "", nil
	}

	rows, err := c.query(ctx, "comment.column", QueryParams{
		Oid:   tableOid,
		Extra: pgmodeler.AttribMap{"subid": position},
	})
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return "", nil
	}

	return rows[0][pgmodeler.AttrComment], nil
}

// IsFromExtension reports whether the object with the given oid was
// created by an extension. Such objects are imported as system objects
// with their SQL code disabled.
func (c *Catalog) IsFromExtension(ctx context.Context, oid string) (bool, error) {
	if !c.templates.Has("from.extension") {
		return false, nil
	}

	rows, err := c.query(ctx, "from.extension", QueryParams{Oid: oid})
	if err != nil {
		return false, err
	}

	return len(rows) > 0, nil
}

// DependencyObject resolves one object (owner, tablespace, collation,
// ...) referenced by oid into its reference.
func (c *Catalog) DependencyObject(ctx context.Context, typ pgmodeler.ObjectType, oid string) (pgmodeler.ObjectRef, error) {
	rows, err := c.queryType(ctx, typ, FlavorList, QueryParams{OidFilter: oid})
	if err != nil {
		return pgmodeler.ObjectRef{}, err
	}

	if len(rows) == 0 {
		return pgmodeler.ObjectRef{}, fmt.Errorf("%w: %s oid %s", ErrObjectNotFound, typ, oid)
	}

	return rows[0].Ref(typ), nil
}

// Databases retrieves all databases, optionally filtered by oid.
func (c *Catalog) Databases(ctx context.Context, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeDatabase, "", oids)
}

// Roles retrieves all roles, optionally filtered by oid.
func (c *Catalog) Roles(ctx context.Context, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeRole, "", oids)
}

// Schemas retrieves all schemas, optionally filtered by oid.
func (c *Catalog) Schemas(ctx context.Context, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeSchema, "", oids)
}

// Languages retrieves all procedural languages, optionally filtered by
// oid.
func (c *Catalog) Languages(ctx context.Context, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeLanguage, "", oids)
}

// Tablespaces retrieves all tablespaces, optionally filtered by oid.
func (c *Catalog) Tablespaces(ctx context.Context, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeTablespace, "", oids)
}

// Extensions retrieves extensions, optionally restricted to a schema
// and filtered by oid.
func (c *Catalog) Extensions(ctx context.Context, schema string, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeExtension, schema, oids)
}

// Functions retrieves functions, optionally restricted to a schema and
// filtered by oid.
func (c *Catalog) Functions(ctx context.Context, schema string, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeFunction, schema, oids)
}

// Tables retrieves tables, optionally restricted to a schema and
// filtered by oid.
func (c *Catalog) Tables(ctx context.Context, schema string, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeTable, schema, oids)
}

// Views retrieves views, optionally restricted to a schema and filtered
// by oid.
func (c *Catalog) Views(ctx context.Context, schema string, oids ...string) ([]pgmodeler.AttribMap, error) {
	return c.SchemaAttributes(ctx, pgmodeler.ObjectTypeView, schema, oids)
}

// Columns retrieves the columns of one table.
func (c *Catalog) Columns(ctx context.Context, schema, table string) ([]pgmodeler.AttribMap, error) {
	return c.queryType(ctx, pgmodeler.ObjectTypeColumn, FlavorAttribs, QueryParams{
		Schema: schema,
		Extra:  pgmodeler.AttribMap{"table": table},
	})
}
