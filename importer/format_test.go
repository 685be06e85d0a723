package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tasprorepo/pgmodeler"
)

func tableRef(name string) pgmodeler.ObjectRef {
	return pgmodeler.ObjectRef{
		Type:   pgmodeler.ObjectTypeTable,
		Name:   name,
		Schema: "public",
		OID:    "16384",
	}
}

func TestDotsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	_ = f.Format(Event{Action: ActionRun}, nil)

	if buf.Len() != 0 {
		t.Error("Non-terminal should produce no output")
	}

	_ = f.Format(Event{Action: ActionImport}, nil)
	_ = f.Format(Event{Action: ActionSkip}, nil)
	_ = f.Format(Event{Action: ActionError}, nil)

	if got := buf.String(); got != ".SE" {
		t.Errorf("got %q, want %q", got, ".SE")
	}
}

func TestDotsFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionImport, Type: pgmodeler.ObjectTypeTable, Object: tableRef("accounts")})
	result.Add(Event{
		Action: ActionError,
		Type:   pgmodeler.ObjectTypeTable,
		Object: tableRef("orders"),
		Error:  errors.New("permission denied"),
	})
	result.Finish()

	_ = f.Summary(result)

	got := buf.String()

	if !bytes.Contains(buf.Bytes(), []byte("ERROR table::public.orders")) {
		t.Errorf("missing error line in:\n%s", got)
	}

	if !bytes.Contains(buf.Bytes(), []byte("FAIL 2 objects, 1 imported, 0 skipped, 1 errors")) {
		t.Errorf("missing summary counts in:\n%s", got)
	}
}

func TestVerboseFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	_ = f.Format(Event{Action: ActionPhase, Type: pgmodeler.ObjectTypeTable}, nil)

	if got, want := buf.String(), "=== TYPE  table\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{
		Action:  ActionImport,
		Type:    pgmodeler.ObjectTypeTable,
		Object:  tableRef("accounts"),
		Elapsed: 10 * time.Millisecond,
	}, nil)

	if got, want := buf.String(), "--- OK:   table::public.accounts (10ms)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{
		Action:  ActionImport,
		Type:    pgmodeler.ObjectTypeTable,
		Object:  tableRef("orders"),
		Elapsed: 10 * time.Millisecond,
		System:  true,
	}, nil)

	if got, want := buf.String(), "--- OK:   table::public.orders (10ms) [extension]\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{
		Action: ActionSkip,
		Type:   pgmodeler.ObjectTypePermission,
		Reason: "no catalog query for backend",
	}, nil)

	if got, want := buf.String(), "--- SKIP: permission: no catalog query for backend\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVerboseFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionImport, Type: pgmodeler.ObjectTypeTable, Object: tableRef("accounts")})
	result.Finish()

	_ = f.Summary(result)

	if !bytes.Contains(buf.Bytes(), []byte("OK")) {
		t.Errorf("missing status in:\n%s", buf.String())
	}

	if !bytes.Contains(buf.Bytes(), []byte("1 total, 1 imported, 0 skipped, 0 errors")) {
		t.Errorf("missing counts in:\n%s", buf.String())
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	_ = f.Format(Event{
		Time:    time.Now(),
		Action:  ActionImport,
		Type:    pgmodeler.ObjectTypeTable,
		Object:  tableRef("accounts"),
		Attribs: pgmodeler.AttribMap{"name": "accounts", "comment": "ledger"},
		Elapsed: 250 * time.Millisecond,
	}, nil)

	var je jsonEvent
	if err := json.Unmarshal(buf.Bytes(), &je); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if je.Action != "imported" {
		t.Errorf("action = %q, want %q", je.Action, "imported")
	}

	if je.Type != "table" || je.Schema != "public" || je.Name != "accounts" {
		t.Errorf("object fields = %q/%q/%q", je.Type, je.Schema, je.Name)
	}

	if je.Attribs["comment"] != "ledger" {
		t.Errorf("attribs not carried: %v", je.Attribs)
	}

	if je.Elapsed != 0.25 {
		t.Errorf("elapsed = %v, want 0.25", je.Elapsed)
	}
}

func TestJSONFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionImport, Type: pgmodeler.ObjectTypeTable, Object: tableRef("accounts")})
	result.Finish()

	_ = f.Summary(result)

	var js jsonSummary
	if err := json.Unmarshal(buf.Bytes(), &js); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if js.Action != "summary" || js.Total != 1 || js.Imported != 1 || !js.Ok {
		t.Errorf("unexpected summary: %+v", js)
	}
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer

	if _, ok := NewFormatter("verbose", &buf).Formatter.(*VerboseFormatter); !ok {
		t.Error("verbose should select VerboseFormatter")
	}

	if _, ok := NewFormatter("json", &buf).Formatter.(*JSONFormatter); !ok {
		t.Error("json should select JSONFormatter")
	}

	if _, ok := NewFormatter("", &buf).Formatter.(*DotsFormatter); !ok {
		t.Error("default should select DotsFormatter")
	}
}
