package pgmodeler

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter selects catalog objects by an expression over their standard
// attributes. The expression environment exposes:
//
//	name    string  — object name
//	schema  string  — schema name (empty for cluster-wide objects)
//	type    string  — object type identifier ("table", "view", ...)
//	oid     string  — object oid
//	system  bool    — true for system-level object types
//
// Example: `type == "table" && name startsWith "audit_"`.
type Filter struct {
	source  string
	program *vm.Program
}

// filterEnv is the typed environment filter expressions compile against.
type filterEnv struct {
	Name   string `expr:"name"`
	Schema string `expr:"schema"`
	Type   string `expr:"type"`
	OID    string `expr:"oid"`
	System bool   `expr:"system"`
}

// CompileFilter compiles an object filter expression. Empty source
// yields a nil filter, which matches everything.
func CompileFilter(source string) (*Filter, error) {
	if source == "" {
		return nil, nil
	}

	program, err := expr.Compile(source, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	return &Filter{source: source, program: program}, nil
}

// Match reports whether the referenced object passes the filter. A nil
// filter matches everything.
func (f *Filter) Match(ref ObjectRef) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, filterEnv{
		Name:   ref.Name,
		Schema: ref.Schema,
		Type:   ref.Type.String(),
		OID:    ref.OID,
		System: ref.Type.IsSystem(),
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// String returns the filter source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}

	return f.source
}
