package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	for _, dialect := range []string{"postgres", "sqlite"} {
		t.Run(dialect, func(t *testing.T) {
			set, err := LoadTemplates(dialect)
			require.NoError(t, err)
			assert.Equal(t, dialect, set.Dialect())
			assert.True(t, set.HasType("table", FlavorList))
			assert.True(t, set.HasType("table", FlavorAttribs))
		})
	}

	_, err := LoadTemplates("oracle")
	require.ErrorIs(t, err, ErrNoTemplates)
}

func TestTemplateSet_RenderFilters(t *testing.T) {
	set, err := LoadTemplates("postgres")
	require.NoError(t, err)

	// No filters: bare query.
	sql, err := set.RenderType("table", FlavorList, QueryParams{})
	require.NoError(t, err)
	assert.NotContains(t, sql, "nspname =")
	assert.NotContains(t, sql, "IN (")

	// Schema filter.
	sql, err = set.RenderType("table", FlavorList, QueryParams{Schema: "public"})
	require.NoError(t, err)
	assert.Contains(t, sql, "n.nspname = 'public'")

	// Oid filter.
	sql, err = set.RenderType("table", FlavorList, QueryParams{OidFilter: "16384,16402"})
	require.NoError(t, err)
	assert.Contains(t, sql, "c.oid IN (16384,16402)")

	// Name filter.
	sql, err = set.RenderType("table", FlavorAttribs, QueryParams{Name: "users"})
	require.NoError(t, err)
	assert.Contains(t, sql, "c.relname = 'users'")
}

func TestTemplateSet_LitEscapesQuotes(t *testing.T) {
	set, err := LoadTemplates("postgres")
	require.NoError(t, err)

	sql, err := set.RenderType("table", FlavorList, QueryParams{Name: "o'brien"})
	require.NoError(t, err)
	assert.Contains(t, sql, "'o''brien'")
}

func TestTemplateSet_UnknownQuery(t *testing.T) {
	set, err := LoadTemplates("sqlite")
	require.NoError(t, err)

	// SQLite has no roles.
	_, err = set.RenderType("role", FlavorList, QueryParams{})
	require.ErrorIs(t, err, ErrNoTemplate)
	assert.False(t, set.HasType("role", FlavorList))
}

func TestTemplateSet_ExtraSubstitution(t *testing.T) {
	set, err := LoadTemplates("postgres")
	require.NoError(t, err)

	sql, err := set.RenderType("column", FlavorAttribs, QueryParams{
		Extra: map[string]string{"table": "users"},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "c.relname = 'users'")

	// Without the extra, the clause is absent.
	sql, err = set.RenderType("column", FlavorAttribs, QueryParams{})
	require.NoError(t, err)
	assert.NotContains(t, sql, "c.relname =")
}

func TestParseTemplates(t *testing.T) {
	set, err := ParseTemplates("custom", `{{define "table.list"}}SELECT oid, name FROM t{{if .Schema}} WHERE s = {{lit .Schema}}{{end}}{{end}}`)
	require.NoError(t, err)

	sql, err := set.RenderType("table", FlavorList, QueryParams{Schema: "public"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT oid, name FROM t WHERE s = 'public'", sql)

	_, err = ParseTemplates("bad", "{{define}}")
	require.Error(t, err)
}

func TestPostgresTemplates_AllTypesCovered(t *testing.T) {
	set, err := LoadTemplates("postgres")
	require.NoError(t, err)

	missing := []string{}

	for _, typ := range []string{
		"role", "tablespace", "database", "schema", "extension",
		"usertype", "language", "function", "aggregate", "operator",
		"opclass", "opfamily", "collation", "conversion", "table",
		"column", "index", "rule", "trigger", "constraint", "cast", "view",
	} {
		for _, flavor := range []QueryFlavor{FlavorList, FlavorAttribs} {
			if !set.HasType(typ, flavor) {
				missing = append(missing, typ+"."+string(flavor))
			}
		}
	}

	assert.Empty(t, missing, "missing templates: %s", strings.Join(missing, ", "))
	assert.True(t, set.Has("comment"))
	assert.True(t, set.Has("comment.shared"))
	assert.True(t, set.Has("comment.column"))
	assert.True(t, set.Has("from.extension"))
}

func TestPostgresTemplates_CastUserObjectBound(t *testing.T) {
	set, err := LoadTemplates("postgres")
	require.NoError(t, err)

	for _, flavor := range []QueryFlavor{FlavorList, FlavorAttribs} {
		sql, err := set.RenderType("cast", flavor, QueryParams{})
		require.NoError(t, err)

		assert.Contains(t, sql, "ca.oid >= 16384", "user casts start at the first normal oid")
		assert.NotContains(t, sql, "datlastsysoid", "dropped in PostgreSQL 15")
	}
}
