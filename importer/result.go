package importer

import (
	"sync"
	"time"

	"github.com/tasprorepo/pgmodeler"
)

// Result accumulates import outcomes during execution.
type Result struct {
	mu sync.RWMutex

	StartTime time.Time
	EndTime   time.Time

	Total    int
	Imported int
	Skipped  int
	Errors   int

	// Types indexes per-type counts in processing order.
	Types map[pgmodeler.ObjectType]*TypeResult

	// Order preserves type processing order for display.
	Order []pgmodeler.ObjectType

	// Failed preserves error events for the summary.
	Failed []Event
}

// TypeResult holds the outcome counts of one object type.
type TypeResult struct {
	Imported int
	Skipped  int
	Errors   int
}

// NewResult creates an initialized Result.
func NewResult() *Result {
	return &Result{
		StartTime: time.Now(),
		Types:     make(map[pgmodeler.ObjectType]*TypeResult),
	}
}

// Add records an event in the result.
func (r *Result) Add(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tr, ok := r.Types[event.Type]
	if !ok {
		tr = &TypeResult{}
		r.Types[event.Type] = tr
		r.Order = append(r.Order, event.Type)
	}

	if !event.Action.IsTerminal() {
		return
	}

	r.Total++

	switch event.Action {
	case ActionImport:
		r.Imported++
		tr.Imported++
	case ActionSkip:
		r.Skipped++
		tr.Skipped++
	case ActionError:
		r.Errors++
		tr.Errors++
		r.Failed = append(r.Failed, event)
	case ActionPhase, ActionRun:
		// Filtered out above
	}
}

// Finish marks the result as complete.
func (r *Result) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EndTime = time.Now()
}

// Elapsed returns the total execution time.
func (r *Result) Elapsed() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}

	return r.EndTime.Sub(r.StartTime)
}

// Ok returns true if no object failed to import.
func (r *Result) Ok() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Errors == 0
}

// TypeCounts returns the counts for one object type, or zeroes when the
// type was never processed.
func (r *Result) TypeCounts(typ pgmodeler.ObjectType) TypeResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tr, ok := r.Types[typ]
	if !ok {
		return TypeResult{}
	}

	return *tr
}
