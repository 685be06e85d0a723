package pgmodeler

import (
	"fmt"
	"sort"
	"strings"
)

// AttribMap is the key-value representation of one catalog row, keyed
// the way the downstream schema parser expects: dashes instead of
// underscores, booleans as "1" or empty.
type AttribMap map[string]string

// Reshape rewrites a raw catalog row into schema-parser form. Keys with
// underscores have them replaced by dashes. Values of keys carrying the
// _bool suffix are normalized from PostgreSQL's t/f to "1"/"". The
// suffix check runs against the raw key, before renaming; values are
// never otherwise touched.
func Reshape(raw map[string]string) AttribMap {
	attribs := make(AttribMap, len(raw))

	for key, value := range raw {
		if strings.HasSuffix(key, boolSuffix) {
			switch value {
			case pgsqlTrue:
				value = boolTrue
			case pgsqlFalse:
				value = boolFalse
			}
		}

		attribs[strings.ReplaceAll(key, "_", "-")] = value
	}

	return attribs
}

// Bool interprets an attribute value under the schema-parser boolean
// convention: non-empty is true.
func (a AttribMap) Bool(key string) bool {
	return a[key] != ""
}

// Get returns the value for key, or fallback when absent or empty.
func (a AttribMap) Get(key, fallback string) string {
	if v, ok := a[key]; ok && v != "" {
		return v
	}

	return fallback
}

// Merge returns a copy of a with the entries of extra layered on top.
// Either map may be nil.
func (a AttribMap) Merge(extra AttribMap) AttribMap {
	merged := make(AttribMap, len(a)+len(extra))
	for k, v := range a {
		merged[k] = v
	}

	for k, v := range extra {
		merged[k] = v
	}

	return merged
}

// Keys returns the attribute keys in sorted order.
func (a AttribMap) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Ref builds an ObjectRef for the given type from this map's standard
// attributes.
func (a AttribMap) Ref(typ ObjectType) ObjectRef {
	return ObjectRef{
		Type:   typ,
		OID:    a[AttrOID],
		Name:   a[AttrName],
		Schema: a[AttrSchema],
	}
}

// OidFilter renders oids as the comma-separated list catalog templates
// splice into an IN (...) clause. An empty list yields an empty string,
// which templates treat as "no filter".
func OidFilter(oids []string) string {
	trimmed := make([]string, 0, len(oids))

	for _, oid := range oids {
		oid = strings.TrimSpace(oid)
		if oid != "" {
			trimmed = append(trimmed, oid)
		}
	}

	return strings.Join(trimmed, ",")
}

// RowToStrings flattens a driver row of arbitrary values into the
// string-typed shape catalog rows use. NULLs become empty strings.
func RowToStrings(row map[string]any) map[string]string {
	out := make(map[string]string, len(row))

	for key, value := range row {
		switch v := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		case []byte:
			out[key] = string(v)
		case bool:
			if v {
				out[key] = pgsqlTrue
			} else {
				out[key] = pgsqlFalse
			}
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}

	return out
}
