package pgmodeler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImportOrder_SystemBeforeUser(t *testing.T) {
	order := ImportOrder()

	if len(order) == 0 {
		t.Fatal("empty import order")
	}

	seenUser := false

	for _, typ := range order {
		if typ.IsSystem() {
			if seenUser {
				t.Fatalf("system type %s ordered after a user type", typ)
			}
		} else {
			seenUser = true
		}
	}
}

func TestImportOrder_Sequence(t *testing.T) {
	want := []ObjectType{
		ObjectTypeRole,
		ObjectTypeTablespace,
		ObjectTypeDatabase,
		ObjectTypeSchema,
		ObjectTypeExtension,
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

	if diff := cmp.Diff(want, ImportOrder()); diff != "" {
		t.Errorf("import order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseObjectType(t *testing.T) {
	typ, err := ParseObjectType("table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if typ != ObjectTypeTable {
		t.Errorf("got %s, want %s", typ, ObjectTypeTable)
	}

	_, err = ParseObjectType("spaceship")
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestCatalogTable(t *testing.T) {
	cases := map[ObjectType]string{
		ObjectTypeRole:       "pg_roles",
		ObjectTypeSchema:     "pg_namespace",
		ObjectTypeTable:      "pg_class",
		ObjectTypeColumn:     "pg_attribute",
		ObjectTypePermission: "",
	}

	for typ, want := range cases {
		if got := typ.CatalogTable(); got != want {
			t.Errorf("%s: got %q, want %q", typ, got, want)
		}
	}
}

func TestSortObjects(t *testing.T) {
	refs := []ObjectRef{
		{Type: ObjectTypeTable, Name: "users"},
		{Type: ObjectTypeRole, Name: "writer"},
		{Type: ObjectTypeTable, Name: "accounts"},
		{Type: ObjectTypeSchema, Name: "public"},
		{Type: ObjectTypeRole, Name: "reader"},
	}

	SortObjects(refs)

	want := []ObjectRef{
		{Type: ObjectTypeRole, Name: "reader"},
		{Type: ObjectTypeRole, Name: "writer"},
		{Type: ObjectTypeSchema, Name: "public"},
		{Type: ObjectTypeTable, Name: "accounts"},
		{Type: ObjectTypeTable, Name: "users"},
	}

	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
}
