// Package export turns the selection stores into the record sets that are
// written out.
//
// The assembler reads only the original record sets and the stores. It never
// sees a filter, so what is exported is exactly what is selected, whatever
// the editor happened to be showing at the time.
package export

import (
	"fmt"
	"slices"

	"github.com/ginjaninja78/opengd77-converter/internal/selection"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

// Result is an assembled export.
type Result struct {
	// Contacts is nil when no contact is selected; that file is then not
	// written at all.
	Contacts []types.Contact

	// Channels is nil when no channel is selected.
	Channels []types.Channel
}

// Counts returns the number of exported contacts and channels.
func (r *Result) Counts() (contacts, channels int) {
	return len(r.Contacts), len(r.Channels)
}

// Sink receives an assembled export. Implementations write every file or
// none of them and return the paths they wrote.
type Sink interface {
	Write(res *Result) ([]string, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(res *Result) ([]string, error)

// Write implements Sink.
func (f SinkFunc) Write(res *Result) ([]string, error) { return f(res) }

// Assemble selects the records to export from the original sets. It fails
// with types.ErrNothingSelected when both stores are empty.
func Assemble(contacts []types.Contact, channels []types.Channel, cs, chs *selection.Store) (*Result, error) {
	if storeLen(cs) == 0 && storeLen(chs) == 0 {
		return nil, types.ErrNothingSelected
	}

	selContacts, err := Select(contacts, cs)
	if err != nil {
		return nil, fmt.Errorf("contacts: %w", err)
	}
	selChannels, err := Select(channels, chs)
	if err != nil {
		return nil, fmt.Errorf("channels: %w", err)
	}

	return &Result{Contacts: selContacts, Channels: selChannels}, nil
}

// Select returns the records of original whose key is selected, ascending by
// key, keeping the first record for a repeated key. It returns nil when
// nothing is selected.
func Select[R types.Record](original []R, sel *selection.Store) ([]R, error) {
	if storeLen(sel) == 0 {
		return nil, nil
	}

	wanted := make(map[int]struct{}, sel.Len())
	for _, k := range sel.Keys() {
		n, err := k.Int()
		if err != nil {
			return nil, err
		}
		wanted[n] = struct{}{}
	}

	picked := make(map[int]R, len(wanted))
	order := make([]int, 0, len(wanted))
	for _, r := range original {
		n, err := r.Key().Int()
		if err != nil {
			return nil, err
		}
		if _, ok := wanted[n]; !ok {
			continue
		}
		if _, dup := picked[n]; dup {
			continue
		}
		picked[n] = r
		order = append(order, n)
	}
	slices.Sort(order)

	out := make([]R, 0, len(order))
	for _, n := range order {
		out = append(out, picked[n])
	}
	return out, nil
}

func storeLen(s *selection.Store) int {
	if s == nil {
		return 0
	}
	return s.Len()
}
