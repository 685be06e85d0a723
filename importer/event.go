// Package importer implements the reverse-engineering engine: it walks
// the catalog in import order and turns objects into events consumed by
// handlers (model builders, formatters, the progress TUI).
package importer

import (
	"time"

	"github.com/tasprorepo/pgmodeler"
)

// Action represents the type of import event.
type Action string

// Action constants for import events.
const (
	ActionPhase  Action = "phase"    // a type group begins
	ActionRun    Action = "run"      // an object's retrieval begins
	ActionImport Action = "imported" // object retrieved and accepted
	ActionSkip   Action = "skipped"  // object or type left out
	ActionError  Action = "error"    // retrieval failed
)

// IsTerminal returns true if this action ends an object's import.
func (a Action) IsTerminal() bool {
	return a == ActionImport || a == ActionSkip || a == ActionError
}

// Event represents a single import event emitted during execution.
type Event struct {
	Time    time.Time            // When the event occurred
	Action  Action               // What happened
	Type    pgmodeler.ObjectType // Object type being processed
	Object  pgmodeler.ObjectRef  // Object the event refers to (empty for phase events)
	Attribs pgmodeler.AttribMap  // Full attribute map (for ActionImport)
	Elapsed time.Duration        // Time taken (for terminal events)
	Reason  string               // Why an object or type was skipped
	Error   error                // Error details (for ActionError)

	// System is set when the object is imported as a system object
	// (extension-owned objects have their SQL disabled).
	System bool
}

// ID returns a unique identifier: "type::schema.name".
func (e Event) ID() string {
	name := e.Object.Name
	if e.Object.Schema != "" {
		name = e.Object.Schema + "." + name
	}

	if name == "" {
		return e.Type.String()
	}

	return e.Type.String() + "::" + name
}
