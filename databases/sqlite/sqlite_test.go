package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasprorepo/pgmodeler"
	"github.com/tasprorepo/pgmodeler/catalog"
)

const fixtureDDL = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	email TEXT NOT NULL,
	created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE posts (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	title TEXT
);
CREATE INDEX idx_posts_user ON posts(user_id);
CREATE VIEW active_users AS SELECT id, email FROM users;
CREATE TRIGGER posts_touch AFTER UPDATE ON posts BEGIN
	UPDATE posts SET title = title WHERE id = NEW.id;
END;
`

func newFixtureDB(t *testing.T) *Database {
	t.Helper()

	db, err := New(&pgmodeler.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Exec(context.Background(), fixtureDDL))

	return db
}

func TestRegistry(t *testing.T) {
	db, err := pgmodeler.NewDatabase(pgmodeler.DatabaseSQLite, &pgmodeler.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, pgmodeler.DatabaseSQLite, db.Name())

	_, err = pgmodeler.NewDatabase(pgmodeler.DatabaseSQLite, struct{}{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCatalog_Tables(t *testing.T) {
	db := newFixtureDB(t)

	cat, err := catalog.New(db)
	require.NoError(t, err)

	refs, err := cat.ListObjects(context.Background(), pgmodeler.ObjectTypeTable, "")
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, "posts", refs[0].Name)
	assert.Equal(t, "users", refs[1].Name)

	count, err := cat.ObjectCount(context.Background(), pgmodeler.ObjectTypeTable, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCatalog_Columns(t *testing.T) {
	db := newFixtureDB(t)

	cat, err := catalog.New(db)
	require.NoError(t, err)

	cols, err := cat.Columns(context.Background(), "", "users")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	byName := map[string]pgmodeler.AttribMap{}
	for _, col := range cols {
		byName[col[pgmodeler.AttrName]] = col
	}

	require.Contains(t, byName, "email")
	assert.True(t, byName["email"].Bool("not-null-bool"))
	assert.False(t, byName["email"].Bool("primary-key-bool"))
	assert.True(t, byName["id"].Bool("primary-key-bool"))
	assert.Equal(t, "CURRENT_TIMESTAMP", byName["created_at"]["default-value"])
}

func TestCatalog_ViewsIndexesTriggers(t *testing.T) {
	db := newFixtureDB(t)

	cat, err := catalog.New(db)
	require.NoError(t, err)

	ctx := context.Background()

	views, err := cat.Views(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "active_users", views[0][pgmodeler.AttrName])
	assert.Contains(t, views[0]["definition"], "SELECT id, email FROM users")

	attribs, err := cat.Attributes(ctx, pgmodeler.ObjectTypeIndex, "idx_posts_user", nil)
	require.NoError(t, err)
	assert.Equal(t, "posts", attribs["table"])

	triggers, err := cat.ListObjects(ctx, pgmodeler.ObjectTypeTrigger, "")
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "posts_touch", triggers[0].Name)
}

func TestCatalog_UnsupportedType(t *testing.T) {
	db := newFixtureDB(t)

	cat, err := catalog.New(db)
	require.NoError(t, err)

	_, err = cat.Roles(context.Background())
	require.ErrorIs(t, err, catalog.ErrNoTemplate)
}
