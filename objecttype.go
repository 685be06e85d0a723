package pgmodeler

import (
	"fmt"
	"sort"
)

// ObjectType identifies a kind of database object discoverable in the
// system catalog.
type ObjectType string

// Object type constants.
const (
	ObjectTypeRole       ObjectType = "role"
	ObjectTypeTablespace ObjectType = "tablespace"
	ObjectTypeDatabase   ObjectType = "database"
	ObjectTypeSchema     ObjectType = "schema"
	ObjectTypeExtension  ObjectType = "extension"
	ObjectTypeUserType   ObjectType = "usertype"
	ObjectTypeLanguage   ObjectType = "language"
	ObjectTypeFunction   ObjectType = "function"
	ObjectTypeAggregate  ObjectType = "aggregate"
	ObjectTypeOperator   ObjectType = "operator"
	ObjectTypeOpClass    ObjectType = "opclass"
	ObjectTypeOpFamily   ObjectType = "opfamily"
	ObjectTypeCollation  ObjectType = "collation"
	ObjectTypeConversion ObjectType = "conversion"
	ObjectTypeTable      ObjectType = "table"
	ObjectTypeColumn     ObjectType = "column"
	ObjectTypeIndex      ObjectType = "index"
	ObjectTypeRule       ObjectType = "rule"
	ObjectTypeTrigger    ObjectType = "trigger"
	ObjectTypeConstraint ObjectType = "constraint"
	ObjectTypeCast       ObjectType = "cast"
	ObjectTypeView       ObjectType = "view"
	ObjectTypePermission ObjectType = "permission"
)

// systemOrder lists cluster-wide object types imported before any
// user-defined object. Order matters: later types may reference earlier
// ones (a schema has an owner role, an extension lives in a schema).
var systemOrder = []ObjectType{
	ObjectTypeRole,
	ObjectTypeTablespace,
	ObjectTypeDatabase,
	ObjectTypeSchema,
	ObjectTypeExtension,
}

// userOrder lists user-defined object types in dependency order, the
// same sequence pg_dump sorts by. Columns come right after tables so
// that indexes, triggers and constraints can resolve them.
var userOrder = []ObjectType{
	ObjectTypeUserType,
	ObjectTypeLanguage,
	ObjectTypeFunction,
	ObjectTypeAggregate,
	ObjectTypeOperator,
	ObjectTypeOpClass,
	ObjectTypeOpFamily,
	ObjectTypeCollation,
	ObjectTypeConversion,
	ObjectTypeTable,
	ObjectTypeColumn,
	ObjectTypeIndex,
	ObjectTypeRule,
	ObjectTypeTrigger,
	ObjectTypeConstraint,
	ObjectTypeCast,
	ObjectTypeView,
	ObjectTypePermission,
}

// catalogTables maps each object type to the pg_catalog relation it is
// read from. Permission has no single backing relation.
var catalogTables = map[ObjectType]string{
	ObjectTypeRole:       "pg_roles",
	ObjectTypeTablespace: "pg_tablespace",
	ObjectTypeDatabase:   "pg_database",
	ObjectTypeSchema:     "pg_namespace",
	ObjectTypeExtension:  "pg_extension",
	ObjectTypeUserType:   "pg_type",
	ObjectTypeLanguage:   "pg_language",
	ObjectTypeFunction:   "pg_proc",
	ObjectTypeAggregate:  "pg_aggregate",
	ObjectTypeOperator:   "pg_operator",
	ObjectTypeOpClass:    "pg_opclass",
	ObjectTypeOpFamily:   "pg_opfamily",
	ObjectTypeCollation:  "pg_collation",
	ObjectTypeConversion: "pg_conversion",
	ObjectTypeTable:      "pg_class",
	ObjectTypeColumn:     "pg_attribute",
	ObjectTypeIndex:      "pg_index",
	ObjectTypeRule:       "pg_rewrite",
	ObjectTypeTrigger:    "pg_trigger",
	ObjectTypeConstraint: "pg_constraint",
	ObjectTypeCast:       "pg_cast",
	ObjectTypeView:       "pg_class",
}

// IsSystem reports whether t is a cluster-wide (system-level) object
// type, imported before any user-defined object.
func (t ObjectType) IsSystem() bool {
	for _, s := range systemOrder {
		if s == t {
			return true
		}
	}

	return false
}

// IsValid reports whether t names a known object type.
func (t ObjectType) IsValid() bool {
	_, ok := catalogTables[t]

	return ok || t == ObjectTypePermission
}

// CatalogTable returns the pg_catalog relation backing this object type,
// or empty when none exists (permissions).
func (t ObjectType) CatalogTable() string {
	return catalogTables[t]
}

// String returns the type identifier.
func (t ObjectType) String() string {
	return string(t)
}

// ParseObjectType converts an identifier into an ObjectType.
func ParseObjectType(s string) (ObjectType, error) {
	t := ObjectType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownObjectType, s)
	}

	return t, nil
}

// ImportOrder returns every object type in reverse-engineering order:
// system-level types first, then user-defined types. Callers must not
// mutate the returned slice.
func ImportOrder() []ObjectType {
	order := make([]ObjectType, 0, len(systemOrder)+len(userOrder))
	order = append(order, systemOrder...)
	order = append(order, userOrder...)

	return order
}

// SystemTypes returns the system-level object types in import order.
func SystemTypes() []ObjectType {
	return append([]ObjectType(nil), systemOrder...)
}

// UserTypes returns the user-defined object types in import order.
func UserTypes() []ObjectType {
	return append([]ObjectType(nil), userOrder...)
}

// importRank maps object types to their position in the import sequence.
var importRank = func() map[ObjectType]int {
	rank := make(map[ObjectType]int)
	for i, t := range ImportOrder() {
		rank[t] = i
	}

	return rank
}()

// ObjectRef identifies one catalog object by type, oid and name.
type ObjectRef struct {
	Type   ObjectType
	OID    string
	Name   string
	Schema string
}

// SortObjects orders refs by import rank, then by name, then by oid for
// stability. The slice is sorted in place.
func SortObjects(refs []ObjectRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		ri, rj := importRank[refs[i].Type], importRank[refs[j].Type]
		if ri != rj {
			return ri < rj
		}

		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}

		return refs[i].OID < refs[j].OID
	})
}
