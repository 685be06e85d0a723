package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Formatter renders import events and results.
type Formatter interface {
	Format(event Event, result *Result) error
	Summary(result *Result) error
}

// Summarizer is implemented by handlers that render a final summary
// once the import completes.
type Summarizer interface {
	Summary(result *Result) error
}

// FormatHandler is a Handler that delegates to a Formatter.
type FormatHandler struct {
	formatter Formatter
	stderr    io.Writer
}

// NewFormatHandler creates a handler that formats events.
func NewFormatHandler(f Formatter, stderr io.Writer) *FormatHandler {
	return &FormatHandler{formatter: f, stderr: stderr}
}

// Event formats the event.
func (h *FormatHandler) Event(_ context.Context, event Event, result *Result) error {
	return h.formatter.Format(event, result)
}

// Err writes to stderr.
func (h *FormatHandler) Err(text string) error {
	_, err := h.stderr.Write([]byte(text + "\n"))

	return err
}

// Summary renders the final summary.
func (h *FormatHandler) Summary(result *Result) error {
	return h.formatter.Summary(result)
}

// -----------------------------------------------------------------------------
// Dots Formatter
// -----------------------------------------------------------------------------

// DotsFormatter is a minimal formatter that prints dots for progress.
type DotsFormatter struct {
	w     io.Writer
	count int
}

// NewDotsFormatter creates a dots formatter.
func NewDotsFormatter(w io.Writer) *DotsFormatter {
	return &DotsFormatter{w: w}
}

const lineWidth = 80

// Format prints a single character per terminal event.
func (d *DotsFormatter) Format(event Event, _ *Result) error {
	if !event.Action.IsTerminal() {
		return nil
	}

	var char string

	switch event.Action {
	case ActionImport:
		char = "."
	case ActionSkip:
		char = "S"
	case ActionError:
		char = "E"
	case ActionPhase, ActionRun:
		return nil
	}

	_, err := fmt.Fprint(d.w, char)
	d.count++

	if d.count%lineWidth == 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	return err
}

// Summary prints the final results.
func (d *DotsFormatter) Summary(result *Result) error {
	if d.count > 0 && d.count%lineWidth != 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	_, _ = fmt.Fprintln(d.w)

	for _, event := range result.Failed {
		_, _ = fmt.Fprintf(d.w, "ERROR %s: %v\n", event.ID(), event.Error)
	}

	if len(result.Failed) > 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	status := "OK"
	if !result.Ok() {
		status = "FAIL"
	}

	_, _ = fmt.Fprintf(d.w, "%s %d objects, %d imported, %d skipped, %d errors in %s\n",
		status,
		result.Total,
		result.Imported,
		result.Skipped,
		result.Errors,
		result.Elapsed().Round(time.Millisecond),
	)

	return nil
}

// -----------------------------------------------------------------------------
// Verbose Formatter
// -----------------------------------------------------------------------------

// VerboseFormatter prints every object as it is processed.
type VerboseFormatter struct {
	w io.Writer
}

// NewVerboseFormatter creates a verbose formatter.
func NewVerboseFormatter(w io.Writer) *VerboseFormatter {
	return &VerboseFormatter{w: w}
}

// Format prints each event as it occurs.
func (v *VerboseFormatter) Format(event Event, _ *Result) error {
	switch event.Action {
	case ActionPhase:
		_, _ = fmt.Fprintf(v.w, "=== TYPE  %s\n", event.Type)
	case ActionRun:
		_, _ = fmt.Fprintf(v.w, "=== RUN   %s\n", event.ID())
	case ActionImport:
		marker := ""
		if event.System {
			marker = " [extension]"
		}

		_, _ = fmt.Fprintf(v.w, "--- OK:   %s (%s)%s\n", event.ID(), event.Elapsed, marker)
	case ActionSkip:
		reason := event.Reason
		if reason != "" {
			reason = ": " + reason
		}

		_, _ = fmt.Fprintf(v.w, "--- SKIP: %s%s\n", event.ID(), reason)
	case ActionError:
		_, _ = fmt.Fprintf(v.w, "--- ERROR: %s (%s)\n", event.ID(), event.Elapsed)
		_, _ = fmt.Fprintf(v.w, "    %v\n", event.Error)
	}

	return nil
}

// Summary prints the final results.
func (v *VerboseFormatter) Summary(result *Result) error {
	_, _ = fmt.Fprintln(v.w)

	status := "OK"
	if !result.Ok() {
		status = "FAIL"
	}

	_, _ = fmt.Fprintf(v.w, "%s\n", status)
	_, _ = fmt.Fprintf(v.w, "  %d total, %d imported, %d skipped, %d errors\n",
		result.Total,
		result.Imported,
		result.Skipped,
		result.Errors,
	)
	_, _ = fmt.Fprintf(v.w, "  elapsed: %s\n", result.Elapsed().Round(time.Millisecond))

	return nil
}

// -----------------------------------------------------------------------------
// JSON Formatter
// -----------------------------------------------------------------------------

// JSONFormatter outputs newline-delimited JSON events.
type JSONFormatter struct {
	enc *json.Encoder
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

type jsonEvent struct {
	Time    string            `json:"time"`
	Action  string            `json:"action"`
	Type    string            `json:"type"`
	Schema  string            `json:"schema,omitempty"`
	Name    string            `json:"name,omitempty"`
	OID     string            `json:"oid,omitempty"`
	System  bool              `json:"system,omitempty"`
	Elapsed float64           `json:"elapsed,omitempty"`
	Reason  string            `json:"reason,omitempty"`
	Error   string            `json:"error,omitempty"`
	Attribs map[string]string `json:"attribs,omitempty"`
}

// Format outputs a JSON event.
func (j *JSONFormatter) Format(event Event, _ *Result) error {
	je := jsonEvent{
		Time:   event.Time.Format(time.RFC3339Nano),
		Action: string(event.Action),
		Type:   event.Type.String(),
		Schema: event.Object.Schema,
		Name:   event.Object.Name,
		OID:    event.Object.OID,
		System: event.System,
		Reason: event.Reason,
	}

	if event.Action.IsTerminal() {
		je.Elapsed = event.Elapsed.Seconds()
	}

	if event.Action == ActionImport {
		je.Attribs = event.Attribs
	}

	if event.Error != nil {
		je.Error = event.Error.Error()
	}

	return j.enc.Encode(je)
}

type jsonSummary struct {
	Action   string  `json:"action"`
	Total    int     `json:"total"`
	Imported int     `json:"imported"`
	Skipped  int     `json:"skipped"`
	Errors   int     `json:"errors"`
	Elapsed  float64 `json:"elapsed"`
	Ok       bool    `json:"ok"`
}

// Summary outputs the final JSON summary.
func (j *JSONFormatter) Summary(result *Result) error {
	return j.enc.Encode(jsonSummary{
		Action:   "summary",
		Total:    result.Total,
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Errors:   result.Errors,
		Elapsed:  result.Elapsed().Seconds(),
		Ok:       result.Ok(),
	})
}

// NewFormatter creates a formatter by name.
func NewFormatter(name string, w io.Writer) *formatterWrapper {
	var f Formatter

	switch name {
	case "verbose":
		f = NewVerboseFormatter(w)
	case "json":
		f = NewJSONFormatter(w)
	default:
		f = NewDotsFormatter(w)
	}

	return &formatterWrapper{f}
}

type formatterWrapper struct {
	Formatter
}
