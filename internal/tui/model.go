package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/critpath/internal/cpm"
	"github.com/papapumpkin/critpath/internal/report"
	"github.com/papapumpkin/critpath/internal/watch"
)

// chromeHeight is the number of lines outside the table: status bar,
// detail line, error line and the two-line footer.
const chromeHeight = 5

// Model is the root BubbleTea model: a task table for the current project
// that reloads on demand or whenever the watched file changes.
type Model struct {
	Keys      KeyMap
	Table     table.Model
	StatusBar StatusBar
	Footer    Footer

	load    LoadFunc
	changes <-chan watch.Change
	delim   string

	// seq numbers issued loads; applied is the newest one shown.
	seq     *uint64
	applied uint64

	snapshot     Snapshot
	err          error
	loadedAt     time.Time
	criticalOnly bool
	width        int
	height       int
}

// NewModel creates a model. changes may be nil when the file is not watched.
func NewModel(load LoadFunc, changes <-chan watch.Change, unit, delim string) Model {
	km := DefaultKeyMap()
	t := table.New(
		table.WithColumns(columns(nil)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tableStyles()),
	)
	if delim == "" {
		delim = " → "
	}
	return Model{
		Keys:      km,
		Table:     t,
		StatusBar: StatusBar{Unit: unit},
		Footer:    Footer{Width: 80, Bindings: FooterBindings(km)},
		load:      load,
		changes:   changes,
		delim:     delim,
		seq:       new(uint64),
	}
}

// Init starts the first load and, when watching, the change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitCmd())
}

func (m Model) loadCmd() tea.Cmd {
	load := m.load
	*m.seq++
	seq := *m.seq
	return func() tea.Msg {
		snap, err := load()
		return MsgLoaded{Seq: seq, Snapshot: snap, Err: err, At: time.Now()}
	}
}

func (m Model) waitCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return MsgFileChanged{Change: c}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.StatusBar.Width = msg.Width
		m.Footer.Width = msg.Width
		m.Table.SetWidth(msg.Width)
		if h := msg.Height - chromeHeight; h > 2 {
			m.Table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Reload):
			return m, m.loadCmd()
		case key.Matches(msg, m.Keys.Critical):
			m.criticalOnly = !m.criticalOnly
			m.StatusBar.Filtered = m.criticalOnly
			m.refreshRows()
			return m, nil
		}

	case MsgLoaded:
		if msg.Seq < m.applied {
			return m, nil
		}
		m.applied = msg.Seq
		if msg.Err != nil {
			// The last good snapshot is kept but not shown.
			m.err = msg.Err
			m.refreshRows()
			return m, nil
		}
		m.err = nil
		m.snapshot = msg.Snapshot
		m.loadedAt = msg.At
		m.StatusBar.Name = msg.Snapshot.Name
		m.StatusBar.Summary = msg.Snapshot.Summary
		m.refreshRows()
		return m, nil

	case MsgFileChanged:
		return m, tea.Batch(m.loadCmd(), m.waitCmd())
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

// visibleRows returns the rows shown under the current filter.
func (m Model) visibleRows() []cpm.Row {
	if m.err != nil {
		return nil
	}
	if !m.criticalOnly {
		return m.snapshot.Rows
	}
	var out []cpm.Row
	for _, r := range m.snapshot.Rows {
		if r.Critical {
			out = append(out, r)
		}
	}
	return out
}

func (m *Model) refreshRows() {
	rows := m.visibleRows()
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(report.Cells(r)))
	}
	m.Table.SetColumns(columns(rows))
	m.Table.SetRows(trows)
	if m.Table.Cursor() < 0 && len(trows) > 0 {
		m.Table.SetCursor(0)
	}
}

// columns sizes each column to its widest cell.
func columns(rows []cpm.Row) []table.Column {
	widths := make([]int, len(report.Headers))
	for i, h := range report.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range report.Cells(r) {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	cols := make([]table.Column, len(widths))
	for i, w := range widths {
		cols[i] = table.Column{Title: report.Headers[i], Width: w}
	}
	return cols
}

// Selected returns the row under the cursor.
func (m Model) Selected() (cpm.Row, bool) {
	rows := m.visibleRows()
	c := m.Table.Cursor()
	if c < 0 || c >= len(rows) {
		return cpm.Row{}, false
	}
	return rows[c], true
}

// Err returns the error from the most recent load, if it failed.
func (m Model) Err() error {
	return m.err
}

// View renders the model. After a failed load only the error is shown.
func (m Model) View() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(styleError.Render("error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(m.Footer.View())
		return b.String()
	}
	b.WriteString(m.StatusBar.View())
	b.WriteString("\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString("\n\n")
	b.WriteString(m.Footer.View())
	return b.String()
}

func (m Model) detailView() string {
	path := m.snapshot.Summary.PathString(m.delim)
	if path == "" {
		path = "(none)"
	}
	line := "critical path: " + path
	if r, ok := m.Selected(); ok {
		status := "float " + report.FormatDuration(r.Slack)
		if r.Critical {
			status = styleCriticalMark.Render("critical")
		}
		line = r.Task + "  " + status + "  |  " + line
	}
	return styleDetail.Render(line)
}
