// Package tui is the terminal selection editor. It shows one tab per loaded
// record kind and drives the session's panes; it keeps no selection state of
// its own.
package tui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/ginjaninja78/opengd77-converter/internal/export"
	"github.com/ginjaninja78/opengd77-converter/internal/selection"
	"github.com/ginjaninja78/opengd77-converter/internal/session"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/internal/view"
)

// pane is the part of session.Pane the editor needs, minus the generic View.
type pane interface {
	Kind() types.Kind
	Filter() view.Filter
	SetFilter(view.Filter) error
	AllowedTypes() []string
	Toggle(types.Key) error
	SelectAllVisible() selection.BulkResult
	DeselectAll()
}

// row is one rendered record.
type row struct {
	Key      types.Key
	Name     string
	Category string
	Detail   string
	Selected bool

	// OverLimit marks contacts past the first types.MaxContacts of the file.
	OverLimit bool
}

// snapshot is a projection flattened for rendering.
type snapshot struct {
	Rows           []row
	TabLabel       string
	SelectionLabel string
	ShowingLabel   string
}

type tab struct {
	title    string
	pane     pane
	snapshot func() snapshot
}

// exportDoneMsg reports the result of a ctrl+s export.
type exportDoneMsg struct {
	res *export.Result
	err error
}

type Model struct {
	sess *session.Session
	sink export.Sink

	tabs []tab

	// snaps caches one snapshot per tab. It is rebuilt when the tab's
	// filter or selection changes.
	snaps []snapshot

	active int
	cursor int
	offset int

	searching   bool
	searchInput textinput.Model

	status    string
	statusErr bool

	width  int
	height int

	quitting bool
	exported *export.Result
}

// New builds the editor for sess. Only loaded kinds get a tab. sink receives
// the export on ctrl+s.
func New(sess *session.Session, sink export.Sink) Model {
	ti := textinput.New()
	ti.Placeholder = "search name"
	ti.Prompt = ""
	ti.CharLimit = 64

	m := Model{
		sess:        sess,
		sink:        sink,
		searchInput: ti,
	}

	if sess.Contacts.Loaded() {
		p := sess.Contacts
		m.tabs = append(m.tabs, tab{
			title: "Contacts",
			pane:  p,
			snapshot: func() snapshot {
				return snapshotOf(p.View(), "Contacts", "contacts", types.MaxContacts, func(c types.Contact) string {
					return fmt.Sprintf("%-8d %s", c.ID, c.IDType)
				}, p.Store())
			},
		})
	}
	if sess.Channels.Loaded() {
		p := sess.Channels
		m.tabs = append(m.tabs, tab{
			title: "Channels",
			pane:  p,
			snapshot: func() snapshot {
				return snapshotOf(p.View(), "Channels", "channels", 0, func(c types.Channel) string {
					return fmt.Sprintf("%-4d %-8s %s/%s", c.ChannelNumber, c.ChannelType, c.RxFrequency, c.TxFrequency)
				}, p.Store())
			},
		})
	}

	m.snaps = make([]snapshot, len(m.tabs))
	for i, t := range m.tabs {
		m.snaps[i] = t.snapshot()
	}
	return m
}

// snapshotOf flattens a projection. Rows at or past limit in the original
// set are marked over the limit; zero means no limit.
func snapshotOf[R types.Record](p view.Projection[R], title, noun string, limit int, detail func(R) string, sel *selection.Store) snapshot {
	rows := make([]row, len(p.Records))
	for i, r := range p.Records {
		rows[i] = row{
			Key:       r.Key(),
			Name:      r.DisplayName(),
			Category:  r.Category(),
			Detail:    detail(r),
			Selected:  sel.IsSelected(r.Key()),
			OverLimit: limit > 0 && p.Positions[i] >= limit,
		}
	}
	return snapshot{
		Rows:           rows,
		TabLabel:       p.TabLabel(title),
		SelectionLabel: p.SelectionLabel(),
		ShowingLabel:   p.ShowingLabel(noun),
	}
}

// refresh rebuilds the cached snapshot of the active tab.
func (m Model) refresh() Model {
	snaps := slices.Clone(m.snaps)
	snaps[m.active] = m.tabs[m.active].snapshot()
	m.snaps = snaps
	return m
}

// Exported returns what the last successful export wrote, if any.
func (m Model) Exported() *export.Result { return m.exported }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, types.ErrNothingSelected) {
				return m.setError("Nothing selected for export"), nil
			}
			return m.setError("Export failed: " + msg.err.Error()), nil
		}
		m.exported = msg.res
		contacts, channels := msg.res.Counts()
		return m.setStatus(fmt.Sprintf("Exported %s contacts and %s channels",
			humanize.Comma(int64(contacts)), humanize.Comma(int64(channels)))), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.tabs) == 0 {
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	t := m.tabs[m.active]

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.active = (m.active + 1) % len(m.tabs)
		m.cursor, m.offset = 0, 0
		m.status = ""
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m.adjustOffset(), nil

	case "down", "j":
		if m.cursor < len(m.snaps[m.active].Rows)-1 {
			m.cursor++
		}
		return m.adjustOffset(), nil

	case "/":
		m.searching = true
		m.searchInput.SetValue(t.pane.Filter().Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case "t":
		f := t.pane.Filter()
		f.Type = nextType(t.pane.AllowedTypes(), f.Type)
		if err := t.pane.SetFilter(f); err != nil {
			return m.setError(err.Error()), nil
		}
		m = m.refresh()
		m.cursor, m.offset = 0, 0
		return m.setStatus("Type: " + f.Type), nil

	case " ", "space":
		rows := m.snaps[m.active].Rows
		if m.cursor >= len(rows) {
			return m, nil
		}
		if err := t.pane.Toggle(rows[m.cursor].Key); err != nil {
			if errors.Is(err, types.ErrLimitExceeded) {
				return m.setError(fmt.Sprintf("OpenGD77 supports max %s %s",
					humanize.Comma(types.MaxContacts), t.pane.Kind())), nil
			}
			return m.setError(err.Error()), nil
		}
		m = m.refresh()
		m.status = ""
		return m, nil

	case "a":
		res := t.pane.SelectAllVisible()
		m = m.refresh()
		if res.Truncated() {
			return m.setError(fmt.Sprintf("Selected %s; %s not selected, OpenGD77 supports max %s %s",
				humanize.Comma(int64(res.Added)), humanize.Comma(int64(res.Skipped)),
				humanize.Comma(types.MaxContacts), t.pane.Kind())), nil
		}
		return m.setStatus(fmt.Sprintf("Selected %s", humanize.Comma(int64(res.Added)))), nil

	case "d":
		t.pane.DeselectAll()
		m = m.refresh()
		return m.setStatus("Selection cleared"), nil

	case "ctrl+s":
		return m, m.export()
	}

	return m, nil
}

// updateSearch feeds keys to the search box and re-filters on every change.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	t := m.tabs[m.active]
	f := t.pane.Filter()
	f.Search = m.searchInput.Value()
	if err := t.pane.SetFilter(f); err != nil {
		return m.setError(err.Error()), cmd
	}
	m = m.refresh()
	m.cursor, m.offset = 0, 0
	return m, cmd
}

func (m Model) export() tea.Cmd {
	sess, sink := m.sess, m.sink
	return func() tea.Msg {
		res, err := sess.Export(sink)
		return exportDoneMsg{res: res, err: err}
	}
}

func (m Model) setStatus(s string) Model {
	m.status, m.statusErr = s, false
	return m
}

func (m Model) setError(s string) Model {
	m.status, m.statusErr = s, true
	return m
}

// listHeight is the number of record rows that fit on screen.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-8, 3)
}

func (m Model) adjustOffset() Model {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	return m
}

func nextType(allowed []string, current string) string {
	if len(allowed) == 0 {
		return current
	}
	if current == "" {
		current = view.TypeAll
	}
	i := slices.Index(allowed, current)
	return allowed[(i+1)%len(allowed)]
}
