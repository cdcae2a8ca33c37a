// Package session ties one conversion run together: the converted record
// sets, their selection stores and the filter each editor pane is showing.
//
// A Session is the only place that combines filters with selections, and it
// only ever does so through view.Project and the pane operations below.
// Export reads the originals and the stores and nothing else.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/ginjaninja78/opengd77-converter/internal/export"
	"github.com/ginjaninja78/opengd77-converter/internal/selection"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/internal/view"
)

// Session is one conversion run.
type Session struct {
	// ID identifies the session in log records.
	ID string

	Contacts *Pane[types.Contact]
	Channels *Pane[types.Channel]

	observer types.Observer
}

// New starts a session over the converted record sets. A nil slice means
// that kind was not loaded. The slices are copied.
func New(contacts []types.Contact, channels []types.Channel, observer types.Observer) *Session {
	if observer == nil {
		observer = types.NopObserver{}
	}
	return &Session{
		ID:       uuid.NewString(),
		Contacts: newPane(types.KindContacts, contacts, observer),
		Channels: newPane(types.KindChannels, channels, observer),
		observer: observer,
	}
}

// Summary is the import summary shown before export.
type Summary struct {
	ContactsSelected int
	ChannelsSelected int
	ContactsTotal    int
	ChannelsTotal    int

	// ContactsExcess is how many loaded contacts exceed types.MaxContacts.
	ContactsExcess int
}

// String renders "Ready to import: X contacts, Y channels".
func (s Summary) String() string {
	return fmt.Sprintf("Ready to import: %d contacts, %d channels", s.ContactsSelected, s.ChannelsSelected)
}

// Summary returns the current selection counts.
func (s *Session) Summary() Summary {
	return Summary{
		ContactsSelected: s.Contacts.store.Len(),
		ChannelsSelected: s.Channels.store.Len(),
		ContactsTotal:    len(s.Contacts.original),
		ChannelsTotal:    len(s.Channels.original),
		ContactsExcess:   types.Excess(len(s.Contacts.original)),
	}
}

// Export assembles the selected records and hands them to sink. It returns
// types.ErrNothingSelected, without calling sink, when nothing is selected.
func (s *Session) Export(sink export.Sink) (*export.Result, error) {
	res, err := export.Assemble(s.Contacts.original, s.Channels.original, s.Contacts.store, s.Channels.store)
	if err != nil {
		if errors.Is(err, types.ErrNothingSelected) {
			types.Emit(s.observer, slog.LevelWarn, types.EventExportAssembled,
				"nothing selected for export", slog.String("session_id", s.ID))
		}
		return nil, err
	}

	contacts, channels := res.Counts()
	types.Emit(s.observer, slog.LevelInfo, types.EventExportAssembled,
		fmt.Sprintf("assembled %d contacts and %d channels", contacts, channels),
		slog.String("session_id", s.ID),
		slog.Int("contacts", contacts),
		slog.Int("channels", channels),
	)

	paths, err := sink.Write(res)
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		types.Emit(s.observer, slog.LevelInfo, types.EventExportWritten,
			"saved "+p,
			slog.String("session_id", s.ID),
			slog.String("path", p),
		)
	}
	return res, nil
}

// =============================================================================
// PANES
// =============================================================================

// Pane is the editor state of one record kind.
type Pane[R types.Record] struct {
	kind     types.Kind
	loaded   bool
	original []R
	store    *selection.Store
	filter   view.Filter
	observer types.Observer
}

func newPane[R types.Record](kind types.Kind, records []R, observer types.Observer) *Pane[R] {
	return &Pane[R]{
		kind:     kind,
		loaded:   records != nil,
		original: slices.Clone(records),
		store:    selection.ForKind(kind),
		filter:   view.Filter{Type: view.TypeAll},
		observer: observer,
	}
}

// Kind returns the record kind of the pane.
func (p *Pane[R]) Kind() types.Kind { return p.kind }

// Loaded reports whether a file was converted for this kind.
func (p *Pane[R]) Loaded() bool { return p.loaded }

// Original returns the unfiltered record set. Callers must not modify it.
func (p *Pane[R]) Original() []R { return p.original }

// Store returns the selection store.
func (p *Pane[R]) Store() *selection.Store { return p.store }

// AllowedTypes returns the type filter values for this kind.
func (p *Pane[R]) AllowedTypes() []string { return view.TypesFor(p.kind) }

// Filter returns the current filter.
func (p *Pane[R]) Filter() view.Filter { return p.filter }

// SetFilter changes the filter. The selection is not touched.
func (p *Pane[R]) SetFilter(f view.Filter) error {
	if err := f.Validate(p.AllowedTypes()); err != nil {
		return err
	}
	p.filter = f
	return nil
}

// View projects the records through the current filter.
func (p *Pane[R]) View() view.Projection[R] {
	return view.Project(p.original, p.filter, p.store)
}

// Toggle flips the selection of one record.
func (p *Pane[R]) Toggle(k types.Key) error {
	err := p.store.Toggle(k)
	if errors.Is(err, types.ErrLimitExceeded) {
		p.limitNotice(0)
	}
	return err
}

// SelectAllVisible adds every visible record, stopping at the limit.
func (p *Pane[R]) SelectAllVisible() selection.BulkResult {
	return p.SelectKeys(p.View().Keys())
}

// SelectKeys adds the keys that name a loaded record, stopping at the
// limit. Unknown keys are ignored.
func (p *Pane[R]) SelectKeys(keys []types.Key) selection.BulkResult {
	known := types.KeySet(p.original)
	keys = slices.DeleteFunc(slices.Clone(keys), func(k types.Key) bool {
		_, ok := known[k]
		return !ok
	})
	res := p.store.SelectAll(keys)
	if res.Truncated() {
		p.limitNotice(res.Skipped)
	}
	return res
}

// SelectOnlyVisible replaces the selection with the visible records.
func (p *Pane[R]) SelectOnlyVisible() error {
	err := p.store.SelectOnly(p.View().Keys())
	if errors.Is(err, types.ErrLimitExceeded) {
		p.limitNotice(0)
	}
	return err
}

// DeselectAll clears the selection, including records hidden by the filter.
func (p *Pane[R]) DeselectAll() {
	p.store.DeselectAll()
}

func (p *Pane[R]) limitNotice(skipped int) {
	msg := fmt.Sprintf("OpenGD77 supports max %d %s", p.store.Limit(), p.kind)
	if skipped > 0 {
		msg = fmt.Sprintf("%s; %d not selected", msg, skipped)
	}
	types.Emit(p.observer, slog.LevelWarn, types.EventSelectionLimit, msg,
		slog.String("kind", string(p.kind)),
		slog.Int("limit", p.store.Limit()),
		slog.Int("skipped", skipped),
	)
}
