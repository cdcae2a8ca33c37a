package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("OpenGD77 Import"))
	b.WriteString("\n\n")

	if len(m.tabs) == 0 {
		b.WriteString(metaStyle.Render("Nothing was loaded."))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	t := m.tabs[m.active]
	snap := m.snaps[m.active]

	// Tabs
	labels := make([]string, len(m.tabs))
	for i := range m.tabs {
		if i == m.active {
			labels[i] = activeTabStyle.Render(m.snaps[i].TabLabel)
		} else {
			labels[i] = tabStyle.Render(m.snaps[i].TabLabel)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
	b.WriteString("\n")

	// Filter line
	f := t.pane.Filter()
	search := f.Search
	if m.searching {
		search = m.searchInput.View()
	} else if search == "" {
		search = metaStyle.Render("(none, / to search)")
	}
	typ := f.Type
	if typ == "" {
		typ = "All"
	}
	fmt.Fprintf(&b, "Search: %s   Type: %s   %s\n", search, typ, metaStyle.Render(snap.ShowingLabel))
	if t.pane.Kind() == types.KindContacts {
		b.WriteString(m.limitLine())
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", m.ruleWidth()))
	b.WriteString("\n")

	// Rows
	if len(snap.Rows) == 0 {
		b.WriteString(metaStyle.Render("No records match the filter"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.listHeight(), len(snap.Rows))
	for i := m.offset; i < end; i++ {
		r := snap.Rows[i]
		box := "[ ]"
		if r.Selected {
			box = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %-24s %s", box, truncate(r.Name, 24), r.Detail)
		if r.OverLimit {
			line += "  " + overLimitStyle.Render("over limit")
		}
		if i == m.cursor {
			b.WriteString(cursorItemStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	// Status
	b.WriteString(strings.Repeat("─", m.ruleWidth()))
	b.WriteString("\n")
	sum := m.sess.Summary()
	fmt.Fprintf(&b, "%s   %s\n", snap.SelectionLabel, metaStyle.Render(fmt.Sprintf(
		"Ready to import: %s contacts, %s channels",
		humanize.Comma(int64(sum.ContactsSelected)), humanize.Comma(int64(sum.ChannelsSelected)))))
	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space toggle • a select visible • d deselect all • t type • / search • tab switch • ctrl+s export • q quit"))

	return b.String()
}

// limitLine renders the contact limit, with a warning when the loaded
// contacts exceed it.
func (m Model) limitLine() string {
	line := fmt.Sprintf("OpenGD77 Limit: %d contacts max", types.MaxContacts)
	if excess := m.sess.Summary().ContactsExcess; excess > 0 {
		return errorStyle.Render(fmt.Sprintf("%s WARNING (%d excess)", line, excess))
	}
	return checkedStyle.Render(line)
}

func (m Model) ruleWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
