package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasprorepo/pgmodeler"
)

// fakeDB is a pgmodeler.Database returning canned rows per query
// substring. It records every executed query.
type fakeDB struct {
	name    string
	rows    map[string][]map[string]any
	queries []string
	err     error
}

func (f *fakeDB) Name() string { return f.name }

func (f *fakeDB) Execute(_ context.Context, query string, _ ...any) ([]map[string]any, error) {
	f.queries = append(f.queries, query)

	if f.err != nil {
		return nil, f.err
	}

	for needle, rows := range f.rows {
		if strings.Contains(query, needle) {
			return rows, nil
		}
	}

	return nil, nil
}

func (f *fakeDB) Close() error { return nil }

func newTestCatalog(t *testing.T, db *fakeDB) *Catalog {
	t.Helper()

	cat, err := New(db)
	require.NoError(t, err)

	return cat
}

func TestNew_UnknownDialect(t *testing.T) {
	_, err := New(&fakeDB{name: "oracle"})
	require.ErrorIs(t, err, ErrNoTemplates)
}

func TestCatalog_ListObjects_SortedAndReshaped(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"FROM pg_class": {
			{"oid": int64(2), "name": "users"},
			{"oid": int64(1), "name": "accounts"},
		},
	}}

	cat := newTestCatalog(t, db)

	refs, err := cat.ListObjects(context.Background(), pgmodeler.ObjectTypeTable, "public")
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, "accounts", refs[0].Name)
	assert.Equal(t, "users", refs[1].Name)
	assert.Equal(t, "public", refs[0].Schema, "schema filter backfills missing schema attr")

	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "n.nspname = 'public'")
}

func TestCatalog_Objects(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"FROM pg_roles": {
			{"oid": int64(10), "name": "reader"},
			{"oid": int64(11), "name": "writer"},
		},
	}}

	cat := newTestCatalog(t, db)

	objects, err := cat.Objects(context.Background(), pgmodeler.ObjectTypeRole, "")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"10": "reader", "11": "writer"}, objects)
}

func TestCatalog_Attributes(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"FROM pg_class": {
			{"oid": int64(16384), "name": "users", "schema": "public", "has_index_bool": "t"},
		},
	}}

	cat := newTestCatalog(t, db)

	attribs, err := cat.Attributes(context.Background(), pgmodeler.ObjectTypeTable, "users", nil)
	require.NoError(t, err)

	assert.Equal(t, "users", attribs[pgmodeler.AttrName])
	assert.Equal(t, "1", attribs["has-index-bool"], "bool reshaped for the schema parser")
	_, hasRaw := attribs["has_index_bool"]
	assert.False(t, hasRaw, "raw key renamed")
}

func TestCatalog_Attributes_NotFound(t *testing.T) {
	cat := newTestCatalog(t, &fakeDB{name: "postgres"})

	_, err := cat.Attributes(context.Background(), pgmodeler.ObjectTypeTable, "ghost", nil)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestCatalog_ObjectCount(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"count(*)": {{"count": int64(7)}},
	}}

	cat := newTestCatalog(t, db)

	count, err := cat.ObjectCount(context.Background(), pgmodeler.ObjectTypeTable, "")
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	require.Len(t, db.queries, 1)
	assert.True(t, strings.HasPrefix(db.queries[0], "SELECT count(*)"))
}

func TestCatalog_Comment(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"pg_shdescription": {{"comment": "primary cluster"}},
		"pg_description":   {{"comment": "user accounts"}},
	}}

	cat := newTestCatalog(t, db)

	comment, err := cat.Comment(context.Background(), "16384", false)
	require.NoError(t, err)
	assert.Equal(t, "user accounts", comment)

	comment, err = cat.Comment(context.Background(), "1262", true)
	require.NoError(t, err)
	assert.Equal(t, "primary cluster", comment)
}

func TestCatalog_Comment_None(t *testing.T) {
	cat := newTestCatalog(t, &fakeDB{name: "postgres"})

	comment, err := cat.Comment(context.Background(), "1", false)
	require.NoError(t, err)
	assert.Empty(t, comment)
}

func TestCatalog_ColumnComment(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"objsubid = 7": {{"comment": "free-form notes"}},
	}}

	cat := newTestCatalog(t, db)

	comment, err := cat.ColumnComment(context.Background(), "16384", "7")
	require.NoError(t, err)
	assert.Equal(t, "free-form notes", comment)

	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "objoid = 16384 AND objsubid = 7")
}

func TestCatalog_IsFromExtension(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"pg_depend": {{"from_extension": int64(1)}},
	}}

	cat := newTestCatalog(t, db)

	ok, err := cat.IsFromExtension(context.Background(), "16384")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCatalog_DependencyObject(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"FROM pg_tablespace": {{"oid": int64(1663), "name": "pg_default"}},
	}}

	cat := newTestCatalog(t, db)

	ref, err := cat.DependencyObject(context.Background(), pgmodeler.ObjectTypeTablespace, "1663")
	require.NoError(t, err)
	assert.Equal(t, "pg_default", ref.Name)
	assert.Equal(t, pgmodeler.ObjectTypeTablespace, ref.Type)

	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "IN (1663)")
}

func TestCatalog_QueryErrorWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	cat := newTestCatalog(t, &fakeDB{name: "postgres", err: boom})

	_, err := cat.Tables(context.Background(), "")
	require.ErrorIs(t, err, boom)
}

func TestCatalog_SQLiteUnsupportedType(t *testing.T) {
	cat := newTestCatalog(t, &fakeDB{name: "sqlite"})

	_, err := cat.Roles(context.Background())
	require.ErrorIs(t, err, ErrNoTemplate)
	assert.False(t, cat.HasType(pgmodeler.ObjectTypeRole))
	assert.True(t, cat.HasType(pgmodeler.ObjectTypeTable))
}

// txDB supports transactions; Begin hands out a transaction that
// records how it is used and how it ends.
type txDB struct {
	fakeDB

	tx *recordedTx
}

func (d *txDB) Begin(_ context.Context) (pgmodeler.Transaction, error) {
	d.tx = &recordedTx{db: d}

	return d.tx, nil
}

type recordedTx struct {
	db         *txDB
	executed   int
	rolledBack bool
}

func (t *recordedTx) Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	t.executed++

	return t.db.fakeDB.Execute(ctx, query, args...)
}

func (t *recordedTx) Commit(_ context.Context) error { return nil }

func (t *recordedTx) Rollback(_ context.Context) error {
	t.rolledBack = true

	return nil
}

func TestCatalog_Snapshot(t *testing.T) {
	db := &txDB{fakeDB: fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"FROM pg_roles": {{"oid": int64(10), "name": "reader"}},
	}}}

	cat, err := New(db)
	require.NoError(t, err)

	snap, release, err := cat.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, db.tx)

	_, err = snap.Roles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, db.tx.executed, "snapshot queries run inside the transaction")

	release()
	assert.True(t, db.tx.rolledBack)
}

func TestCatalog_Snapshot_PlainBackend(t *testing.T) {
	cat := newTestCatalog(t, &fakeDB{name: "postgres"})

	snap, release, err := cat.Snapshot(context.Background())
	require.NoError(t, err)
	defer release()

	assert.Same(t, cat, snap, "backends without transactions read directly")
}

func TestCatalog_Columns(t *testing.T) {
	db := &fakeDB{name: "postgres", rows: map[string][]map[string]any{
		"pg_attribute": {
			{"oid": "16384.1", "name": "id", "table": "users", "not_null_bool": "t"},
			{"oid": "16384.2", "name": "email", "table": "users", "not_null_bool": "f"},
		},
	}}

	cat := newTestCatalog(t, db)

	cols, err := cat.Columns(context.Background(), "public", "users")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, "1", cols[0]["not-null-bool"])
	assert.Equal(t, "", cols[1]["not-null-bool"])

	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "c.relname = 'users'")
}
