package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/tasprorepo/pgmodeler"
)

// TUIFormatter implements Formatter with an animated terminal UI.
type TUIFormatter struct {
	program  *tea.Program
	model    *tuiModel
	mu       sync.Mutex
	finished bool
}

// NewTUIFormatter creates a TUI formatter showing one row per object
// type in import order.
func NewTUIFormatter(w io.Writer, types []pgmodeler.ObjectType) *TUIFormatter {
	model := newTUIModel(types)

	opts := []tea.ProgramOption{
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
		tea.WithAltScreen(), // Use alternate screen so animation doesn't pollute scrollback
	}

	// Only use input if we have a TTY
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		// TTY mode - full interactive
	} else {
		// Non-TTY mode - disable input
		opts = append(opts, tea.WithInput(nil))
	}

	p := tea.NewProgram(model, opts...)

	return &TUIFormatter{
		program: p,
		model:   model,
	}
}

// Start begins the TUI event loop. Call this before running the import.
func (t *TUIFormatter) Start() error {
	go func() {
		_, _ = t.program.Run()
	}()

	// Give the program a moment to initialize
	time.Sleep(20 * time.Millisecond)

	return nil
}

// Format sends an event to the TUI.
func (t *TUIFormatter) Format(event Event, _ *Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return nil
	}

	t.program.Send(importEventMsg(event))

	return nil
}

// Summary waits for completion and renders final output.
func (t *TUIFormatter) Summary(result *Result) error {
	t.mu.Lock()
	t.finished = true
	t.mu.Unlock()

	// Send done signal
	t.program.Send(doneMsg{result: result})
	time.Sleep(50 * time.Millisecond)

	// Quit and wait for program to exit cleanly
	t.program.Quit()
	time.Sleep(50 * time.Millisecond)

	// Print the final static output. The TUI used the alternate screen,
	// so exiting it returns us to the main screen with clean scrollback.
	fmt.Println(t.model.FinalView())

	return nil
}

// -----------------------------------------------------------------------------
// Bubbletea Model
// -----------------------------------------------------------------------------

// rowStatus tracks the state of one object type row.
type rowStatus int

const (
	rowPending rowStatus = iota
	rowRunning
	rowDone
	rowSkipped
	rowFailed
)

// typeRow is one line of the progress view.
type typeRow struct {
	typ      pgmodeler.ObjectType
	status   rowStatus
	imported int
	skipped  int
	errors   int

	// current names the object being retrieved right now
	current string

	// reason records why a whole type was skipped
	reason string
}

// tuiModel is the bubbletea model for the import progress UI.
type tuiModel struct {
	styles  *Styles
	spinner spinner.Model

	width  int
	height int

	rows   []*typeRow
	idx    map[pgmodeler.ObjectType]int
	active int

	startTime time.Time
	endTime   time.Time

	finalResult *Result
	isDone      bool
}

// Messages
type (
	tickMsg        time.Time
	importEventMsg Event
	doneMsg        struct{ result *Result }
)

func newTUIModel(types []pgmodeler.ObjectType) *tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: SpinnerFrames(),
		FPS:    time.Second / 10,
	}
	s.Style = DefaultStyles().Running

	if len(types) == 0 {
		types = pgmodeler.ImportOrder()
	}

	rows := make([]*typeRow, len(types))
	idx := make(map[pgmodeler.ObjectType]int, len(types))

	for i, typ := range types {
		rows[i] = &typeRow{typ: typ}
		idx[typ] = i
	}

	return &tuiModel{
		styles:    DefaultStyles(),
		spinner:   s,
		rows:      rows,
		idx:       idx,
		active:    -1,
		startTime: time.Now(),
		width:     80,
		height:    24,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.tick(),
	)
}

func (m *tuiModel) tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.QuitMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case tickMsg:
		if !m.isDone {
			cmds = append(cmds, m.tick())
		}

	case spinner.TickMsg:
		if !m.isDone {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case importEventMsg:
		m.handleEvent(Event(msg))

	case doneMsg:
		m.finishActive()
		m.isDone = true
		m.endTime = time.Now()
		m.finalResult = msg.result
	}

	return m, tea.Batch(cmds...)
}

// finishActive settles the status of the row currently running.
func (m *tuiModel) finishActive() {
	if m.active < 0 || m.active >= len(m.rows) {
		return
	}

	row := m.rows[m.active]
	row.current = ""

	switch {
	case row.errors > 0:
		row.status = rowFailed
	case row.imported == 0 && row.skipped > 0:
		row.status = rowSkipped
	default:
		row.status = rowDone
	}
}

func (m *tuiModel) handleEvent(event Event) {
	i, ok := m.idx[event.Type]
	if !ok {
		return
	}

	row := m.rows[i]

	switch event.Action {
	case ActionPhase:
		m.finishActive()

		m.active = i
		row.status = rowRunning

	case ActionRun:
		row.current = event.Object.Name

	case ActionImport:
		row.imported++
		row.current = ""

	case ActionSkip:
		row.skipped++
		row.current = ""

		if event.Object.Name == "" {
			row.reason = event.Reason
		}

	case ActionError:
		row.errors++
		row.current = ""
	}
}

// clearEOL is the ANSI escape sequence to clear from cursor to end of line.
const clearEOL = "\033[K"

// FinalView renders the complete final output for printing after the TUI
// exits, without clear-to-EOL sequences.
func (m *tuiModel) FinalView() string {
	lines := []string{
		m.renderHeader(),
		m.renderProgress(),
		"",
	}

	for i, row := range m.rows {
		lines = append(lines, m.renderRow(row, i == len(m.rows)-1))
	}

	lines = append(lines, "", m.renderSummary())

	return strings.Join(lines, "\n")
}

func (m *tuiModel) View() string {
	lines := []string{
		m.renderHeader(),
		m.renderProgress(),
		"",
	}

	for i, row := range m.rows {
		lines = append(lines, m.renderRow(row, i == len(m.rows)-1))
	}

	if m.isDone {
		lines = append(lines, "", m.renderSummary())
	}

	// Add clear-to-EOL to each line to prevent rendering artifacts
	for i := range lines {
		lines[i] += clearEOL
	}

	return strings.Join(lines, "\n") + "\n"
}

func (m *tuiModel) renderHeader() string {
	logo := m.styles.Bold.Render("pgmodeler")
	subtitle := m.styles.Dim.Render(" import")

	var status string

	switch {
	case m.isDone && m.counts().errors > 0:
		status = m.styles.Fail.Render("FAIL")
	case m.isDone:
		status = m.styles.Pass.Render("OK")
	case m.active >= 0:
		status = m.styles.Running.Render(m.rows[m.active].typ.String())
	default:
		status = m.styles.Dim.Render("starting")
	}

	return fmt.Sprintf("%s%s  %s", logo, subtitle, status)
}

type tuiCounts struct {
	imported int
	skipped  int
	errors   int
}

func (m *tuiModel) counts() tuiCounts {
	var c tuiCounts

	for _, row := range m.rows {
		c.imported += row.imported
		c.skipped += row.skipped
		c.errors += row.errors
	}

	return c
}

func (m *tuiModel) renderProgress() string {
	done := 0

	for _, row := range m.rows {
		if row.status != rowPending && row.status != rowRunning {
			done++
		}
	}

	total := len(m.rows)
	if total == 0 {
		total = 1
	}

	pct := float64(done) / float64(total)

	elapsed := time.Since(m.startTime)
	if !m.endTime.IsZero() {
		elapsed = m.endTime.Sub(m.startTime)
	}

	elapsedStr := m.styles.Dim.Render(fmt.Sprintf("[%s]", formatDuration(elapsed)))

	barWidth := 30
	filled := int(pct * float64(barWidth))
	filledChar, emptyChar := ProgressChars()

	bar := m.styles.ProgressFilled.Render(strings.Repeat(filledChar, filled)) +
		m.styles.ProgressEmpty.Render(strings.Repeat(emptyChar, barWidth-filled))

	counter := m.styles.Muted.Render(fmt.Sprintf("%d/%d types", done, total))

	return fmt.Sprintf("%s %s %s", elapsedStr, bar, counter)
}

func (m *tuiModel) renderRow(row *typeRow, isLast bool) string {
	branch := "├─"
	if isLast {
		branch = "╰─"
	}

	var symbol string

	switch row.status {
	case rowPending:
		symbol = m.styles.Dim.Render("⋯")
	case rowRunning:
		symbol = m.spinner.View()
	case rowDone:
		symbol = m.styles.Pass.Render(m.styles.SymbolPass)
	case rowSkipped:
		symbol = m.styles.Skip.Render(m.styles.SymbolSkip)
	case rowFailed:
		symbol = m.styles.Fail.Render(m.styles.SymbolFail)
	}

	name := m.styles.TypeName.Render(row.typ.String())

	var detail string

	switch {
	case row.current != "":
		detail = m.styles.Dim.Render("  " + row.current)
	case row.reason != "":
		detail = m.styles.Dim.Render("  " + row.reason)
	case row.status != rowPending && row.status != rowRunning:
		parts := []string{fmt.Sprintf("%d imported", row.imported)}
		if row.skipped > 0 {
			parts = append(parts, fmt.Sprintf("%d skipped", row.skipped))
		}

		if row.errors > 0 {
			parts = append(parts, fmt.Sprintf("%d errors", row.errors))
		}

		detail = m.styles.Muted.Render("  " + strings.Join(parts, ", "))
	}

	return m.styles.Dim.Render(branch+" ") + symbol + " " + name + detail
}

func (m *tuiModel) renderSummary() string {
	c := m.counts()

	var parts []string

	if c.imported > 0 {
		parts = append(parts, m.styles.Pass.Render(fmt.Sprintf("%d imported", c.imported)))
	}

	if c.skipped > 0 {
		parts = append(parts, m.styles.Skip.Render(fmt.Sprintf("%d skipped", c.skipped)))
	}

	if c.errors > 0 {
		parts = append(parts, m.styles.Error.Render(fmt.Sprintf("%d errors", c.errors)))
	}

	if len(parts) == 0 {
		return m.styles.Dim.Render("  No objects imported")
	}

	total := m.styles.Muted.Render(fmt.Sprintf("(%d total)", c.imported+c.skipped+c.errors))
	sep := m.styles.Dim.Render(" │ ")

	return "  " + strings.Join(parts, sep) + " " + total
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}

	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// -----------------------------------------------------------------------------
// TUIHandler - Bridges TUI to Handler interface
// -----------------------------------------------------------------------------

// TUIHandler wraps TUIFormatter to implement Handler.
type TUIHandler struct {
	formatter *TUIFormatter
	stderr    io.Writer
}

// NewTUIHandler creates a handler that uses the TUI formatter.
func NewTUIHandler(w io.Writer, stderr io.Writer) *TUIHandler {
	return &TUIHandler{
		formatter: NewTUIFormatter(w, nil),
		stderr:    stderr,
	}
}

// Start initializes the TUI.
func (h *TUIHandler) Start() error {
	return h.formatter.Start()
}

// Event sends an event to the TUI.
func (h *TUIHandler) Event(_ context.Context, event Event, result *Result) error {
	return h.formatter.Format(event, result)
}

// Err writes to stderr.
func (h *TUIHandler) Err(text string) error {
	_, err := h.stderr.Write([]byte(text + "\n"))

	return err
}

// Summary renders the final summary.
func (h *TUIHandler) Summary(result *Result) error {
	return h.formatter.Summary(result)
}
