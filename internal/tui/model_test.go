package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/opengd77-converter/internal/export"
	"github.com/ginjaninja78/opengd77-converter/internal/session"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func keySpace() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func keyDown() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyDown}
}

// sendKeys feeds msgs through Update and returns the resulting model.
func sendKeys(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func contacts(n int) []types.Contact {
	out := make([]types.Contact, n)
	for i := range out {
		typ := types.IDTypeGroup
		if i%2 == 1 {
			typ = types.IDTypePrivate
		}
		out[i] = types.Contact{ContactName: "Contact " + types.KeyFromInt(i+1).String(), ID: i + 1, IDType: typ, TSOverride: "None"}
	}
	return out
}

func TestNew_TabsOnlyForLoadedKinds(t *testing.T) {
	m := New(session.New(contacts(3), nil, nil), nil)
	require.Len(t, m.tabs, 1)
	assert.Equal(t, "Contacts", m.tabs[0].title)

	out := m.View()
	assert.Contains(t, out, "Contacts (0/3)")
	assert.NotContains(t, out, "Channels (")
}

func TestToggleAndNavigate(t *testing.T) {
	sess := session.New(contacts(3), nil, nil)
	m := New(sess, nil)

	m, _ = sendKeys(t, m, keySpace(), keyDown(), keyDown(), keySpace())
	assert.Equal(t, []types.Key{"1", "3"}, sess.Contacts.Store().Keys())

	m, _ = sendKeys(t, m, keySpace())
	assert.Equal(t, []types.Key{"1"}, sess.Contacts.Store().Keys())
	assert.Contains(t, m.View(), "Contacts (1/3)")
}

func TestTypeFilterKeepsSelection(t *testing.T) {
	sess := session.New(contacts(6), nil, nil)
	m := New(sess, nil)

	// All -> Group
	m, _ = sendKeys(t, m, key('t'), key('a'))
	assert.Equal(t, "Group", sess.Contacts.Filter().Type)
	assert.Equal(t, 3, sess.Contacts.Store().Len())

	// Group -> Private -> All
	m, _ = sendKeys(t, m, key('t'))
	assert.Contains(t, m.View(), "Selected in filter: 0, Total selected: 3")
	m, _ = sendKeys(t, m, key('t'))
	assert.Equal(t, "All", sess.Contacts.Filter().Type)
	assert.Equal(t, 3, sess.Contacts.Store().Len())

	m, _ = sendKeys(t, m, key('d'))
	assert.Zero(t, sess.Contacts.Store().Len())
	assert.Equal(t, "Selection cleared", m.status)
}

func TestSearch(t *testing.T) {
	sess := session.New(contacts(12), nil, nil)
	m := New(sess, nil)

	m, _ = sendKeys(t, m, key('/'))
	require.True(t, m.searching)

	m, _ = sendKeys(t, m, key('1'), key('1'))
	assert.Equal(t, "11", sess.Contacts.Filter().Search)
	out := m.View()
	assert.Contains(t, out, "Contacts (0/1)")
	assert.Contains(t, out, "Showing: 1 contacts")

	m, _ = sendKeys(t, m, tea.KeyMsg{Type: tea.KeyEnter}, key('a'))
	assert.False(t, m.searching)
	assert.Equal(t, []types.Key{"11"}, sess.Contacts.Store().Keys())
}

func TestSelectAllVisibleAtLimit(t *testing.T) {
	sess := session.New(contacts(types.MaxContacts+10), nil, nil)
	m := New(sess, nil)

	m, cmd := sendKeys(t, m, key('a'))
	assert.Nil(t, cmd, "limit does not quit")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "10 not selected")
	assert.Equal(t, types.MaxContacts, sess.Contacts.Store().Len())

	// Toggling an unselected record past the limit is refused.
	for range types.MaxContacts + 5 {
		m, _ = sendKeys(t, m, keyDown())
	}
	m, _ = sendKeys(t, m, keySpace())
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "OpenGD77 supports max 1,024 contacts")
	assert.Equal(t, types.MaxContacts, sess.Contacts.Store().Len())
}

func TestView_ContactLimit(t *testing.T) {
	m := New(session.New(contacts(3), nil, nil), nil)
	out := m.View()
	assert.Contains(t, out, "OpenGD77 Limit: 1024 contacts max")
	assert.NotContains(t, out, "WARNING")
	assert.NotContains(t, out, "over limit")

	m = New(session.New(contacts(types.MaxContacts+6), nil, nil), nil)
	assert.Contains(t, m.View(), "OpenGD77 Limit: 1024 contacts max WARNING (6 excess)")

	// The last in-limit contact is unmarked.
	m, _ = sendKeys(t, m, key('/'))
	for _, r := range "Contact 1024" {
		m, _ = sendKeys(t, m, key(r))
	}
	out = m.View()
	assert.Contains(t, out, "Showing: 1 contacts")
	assert.NotContains(t, out, "over limit")

	m, _ = sendKeys(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, key('3'), key('0'))
	assert.Equal(t, "Contact 1030", m.tabs[0].pane.Filter().Search)
	out = m.View()
	assert.Contains(t, out, "Showing: 1 contacts")
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "Contact 1030") && strings.Contains(l, "[ ]") {
			assert.Contains(t, l, "over limit")
		}
	}
	assert.Contains(t, out, "over limit")
}

func TestSnapshotRefreshesOnChange(t *testing.T) {
	sess := session.New(contacts(4), nil, nil)
	m := New(sess, nil)
	before := m.snaps[0]

	// Moving the cursor reuses the cached rows.
	m, _ = sendKeys(t, m, keyDown())
	assert.Equal(t, before, m.snaps[0])

	m, _ = sendKeys(t, m, keySpace())
	assert.True(t, m.snaps[0].Rows[1].Selected)
	assert.False(t, before.Rows[1].Selected)
	assert.Equal(t, "Contacts (1/4)", m.snaps[0].TabLabel)

	m, _ = sendKeys(t, m, key('t'))
	assert.Equal(t, "Contacts (0/2)", m.snaps[0].TabLabel)
	assert.Equal(t, "Showing: 2 contacts", m.snaps[0].ShowingLabel)
}

func TestTabSwitchAndExport(t *testing.T) {
	ch := types.NewChannel(1)
	ch.ChannelName, ch.ChannelType = "Calling", types.ChannelAnalogue
	sess := session.New(contacts(2), []types.Channel{ch}, nil)

	var written *export.Result
	sink := export.SinkFunc(func(res *export.Result) ([]string, error) {
		written = res
		return []string{"Channels.csv"}, nil
	})
	m := New(sess, sink)
	require.Len(t, m.tabs, 2)

	// Nothing selected yet.
	m, cmd := sendKeys(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = sendKeys(t, m, cmd())
	assert.True(t, m.statusErr)
	assert.Equal(t, "Nothing selected for export", m.status)
	assert.Nil(t, written)

	m, _ = sendKeys(t, m, tea.KeyMsg{Type: tea.KeyTab}, keySpace())
	assert.Equal(t, 1, m.active)
	assert.Equal(t, 1, sess.Channels.Store().Len())

	m, cmd = sendKeys(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = sendKeys(t, m, cmd())
	require.NotNil(t, written)
	assert.Len(t, written.Channels, 1)
	assert.Nil(t, written.Contacts)
	assert.Same(t, written, m.Exported())
	assert.Equal(t, "Exported 0 contacts and 1 channels", m.status)

	_, cmd = sendKeys(t, m, key('q'))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestView_Rows(t *testing.T) {
	sess := session.New(contacts(2), nil, nil)
	m := New(sess, nil)
	m, _ = sendKeys(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, keySpace())

	out := m.View()
	lines := strings.Split(out, "\n")
	var rows []string
	for _, l := range lines {
		if strings.Contains(l, "Contact ") {
			rows = append(rows, l)
		}
	}
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "[x]")
	assert.Contains(t, rows[1], "[ ]")
	assert.Contains(t, out, "Ready to import: 1 contacts, 0 channels")
}
