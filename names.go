package pgmodeler

// Database backend names.
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Attribute keys shared across catalog queries. Keys are in dash form,
// the shape the schema parser consumes (see AttribMap.Reshape).
const (
	AttrOID         = "oid"
	AttrName        = "name"
	AttrSchema      = "schema"
	AttrOwner       = "owner"
	AttrComment     = "comment"
	AttrSystem      = "system"
	AttrSQLDisabled = "sql-disabled"
)

// PostgreSQL renders booleans as single characters in catalog rows. The
// schema parser understands booleans as "1" (true) and "" (false).
const (
	pgsqlTrue  = "t"
	pgsqlFalse = "f"
	boolTrue   = "1"
	boolFalse  = ""
)

// boolSuffix marks attribute keys whose values carry a PostgreSQL
// boolean needing normalization.
const boolSuffix = "_bool"
