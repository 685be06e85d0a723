package pgmodeler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReshape(t *testing.T) {
	raw := map[string]string{
		"oid":            "16384",
		"object_name":    "users",
		"has_index_bool": "t",
		"is_shared_bool": "f",
		"default_value":  "now()_utc", // values keep their underscores
	}

	got := Reshape(raw)

	want := AttribMap{
		"oid":            "16384",
		"object-name":    "users",
		"has-index-bool": "1",
		"is-shared-bool": "",
		"default-value":  "now()_utc",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reshape mismatch (-want +got):\n%s", diff)
	}
}

func TestReshape_NonBoolValuesUntouched(t *testing.T) {
	// A t/f value outside a _bool field must survive as-is.
	got := Reshape(map[string]string{"alignment": "t"})

	if got["alignment"] != "t" {
		t.Errorf("got %q, want %q", got["alignment"], "t")
	}
}

func TestAttribMap_Bool(t *testing.T) {
	attribs := AttribMap{"has-index-bool": "1", "is-shared-bool": ""}

	if !attribs.Bool("has-index-bool") {
		t.Error("expected true for non-empty value")
	}

	if attribs.Bool("is-shared-bool") {
		t.Error("expected false for empty value")
	}

	if attribs.Bool("missing") {
		t.Error("expected false for missing key")
	}
}

func TestAttribMap_Merge(t *testing.T) {
	base := AttribMap{"name": "users", "schema": "public"}
	merged := base.Merge(AttribMap{"schema": "audit", "oid": "42"})

	want := AttribMap{"name": "users", "schema": "audit", "oid": "42"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	if base["schema"] != "public" {
		t.Error("merge must not mutate the receiver")
	}
}

func TestOidFilter(t *testing.T) {
	cases := []struct {
		name string
		oids []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"16384"}, "16384"},
		{"multiple", []string{"1", "2", "3"}, "1,2,3"},
		{"blanks dropped", []string{"1", "", " ", "2"}, "1,2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OidFilter(tc.oids); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRowToStrings(t *testing.T) {
	row := map[string]any{
		"oid":         int64(42),
		"name":        "users",
		"relkind":     []byte("r"),
		"has_pk_bool": true,
		"comment":     nil,
	}

	got := RowToStrings(row)

	want := map[string]string{
		"oid":         "42",
		"name":        "users",
		"relkind":     "r",
		"has_pk_bool": "t",
		"comment":     "",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}
