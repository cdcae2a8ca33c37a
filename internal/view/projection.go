// Package view derives what an editor shows from the original record set, the
// current filter and the selection store.
//
// Projections are pure: they read the store and never change it, so a filter
// can be changed back and forth any number of times without touching the
// selection.
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ginjaninja78/opengd77-converter/internal/selection"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

// TypeAll is the type filter value that matches every record.
const TypeAll = "All"

// Allowed type filter values per record kind.
var (
	ContactTypes = []string{TypeAll, string(types.IDTypeGroup), string(types.IDTypePrivate)}
	ChannelTypes = []string{TypeAll, string(types.ChannelAnalogue), string(types.ChannelDigital)}
)

// TypesFor returns the allowed type filter values for kind.
func TypesFor(kind types.Kind) []string {
	if kind == types.KindContacts {
		return ContactTypes
	}
	return ChannelTypes
}

// Filter is the search box and type dropdown of one editor pane.
type Filter struct {
	// Search is matched case-insensitively as a substring of the record's
	// display name. Empty matches everything.
	Search string

	// Type is TypeAll, empty, or one of the record kind's category values.
	Type string
}

// Validate rejects a type that is not in allowed.
func (f Filter) Validate(allowed []string) error {
	if f.Type == "" || slices.Contains(allowed, f.Type) {
		return nil
	}
	return fmt.Errorf("%w: unknown type filter %q (want one of %s)",
		types.ErrValidation, f.Type, strings.Join(allowed, ", "))
}

// Matches reports whether r passes the filter.
func (f Filter) Matches(r types.Record) bool {
	if f.Type != "" && f.Type != TypeAll && r.Category() != f.Type {
		return false
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.DisplayName()), strings.ToLower(f.Search))
}

// Projection is one filtered view of a record set.
type Projection[R types.Record] struct {
	// Records holds the matching records in their original relative order.
	Records []R

	// Positions holds the index in the original set of each visible record.
	Positions []int

	// Visible is len(Records).
	Visible int

	// SelectedInView counts selected keys among the visible records.
	SelectedInView int

	// SelectedTotal counts every selected key, visible or not.
	SelectedTotal int

	// Total is the size of the unfiltered record set.
	Total int
}

// Project filters original and counts selections against sel. A nil store
// counts as empty.
func Project[R types.Record](original []R, f Filter, sel *selection.Store) Projection[R] {
	p := Projection[R]{Total: len(original)}

	for i, r := range original {
		if f.Matches(r) {
			p.Records = append(p.Records, r)
			p.Positions = append(p.Positions, i)
		}
	}
	p.Visible = len(p.Records)

	if sel != nil {
		p.SelectedInView = len(sel.Intersect(types.KeySet(p.Records)))
		p.SelectedTotal = sel.Len()
	}
	return p
}

// Keys returns the keys of the visible records in view order.
func (p Projection[R]) Keys() []types.Key {
	keys := make([]types.Key, len(p.Records))
	for i, r := range p.Records {
		keys[i] = r.Key()
	}
	return keys
}

// SelectionLabel describes the selection. When part of the selection is
// hidden by the filter both numbers are shown.
func (p Projection[R]) SelectionLabel() string {
	if p.SelectedInView == p.SelectedTotal {
		return fmt.Sprintf("Selected: %d for import", p.SelectedTotal)
	}
	return fmt.Sprintf("Selected in filter: %d, Total selected: %d", p.SelectedInView, p.SelectedTotal)
}

// TabLabel renders "Contacts (X/N)": selected visible records over visible
// records.
func (p Projection[R]) TabLabel(title string) string {
	return fmt.Sprintf("%s (%d/%d)", title, p.SelectedInView, p.Visible)
}

// ShowingLabel renders "Showing: N contacts".
func (p Projection[R]) ShowingLabel(noun string) string {
	return fmt.Sprintf("Showing: %d %s", p.Visible, noun)
}
