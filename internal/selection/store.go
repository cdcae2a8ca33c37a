// Package selection holds the set of record keys chosen for export.
//
// A Store knows nothing about filters, rows or screen positions: it is a set
// of canonical keys with an optional upper bound. Views read it, the editor
// changes it, the export assembler consumes it. Because membership is stored by
// key only, changing the filter can never add or remove a selection.
package selection

import (
	"fmt"

	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

// Store is a bounded set of selected keys. The zero value is an empty,
// unbounded store. A Store is not safe for concurrent use.
type Store struct {
	keys  map[types.Key]struct{}
	limit int
}

// New returns an empty store. A limit of zero or less means unbounded.
func New(limit int) *Store {
	if limit < 0 {
		limit = 0
	}
	return &Store{keys: make(map[types.Key]struct{}), limit: limit}
}

// ForKind returns an empty store with the limit that applies to kind.
// Contacts are bounded by the radio's contact table; channels are not.
func ForKind(kind types.Kind) *Store {
	if kind == types.KindContacts {
		return New(types.MaxContacts)
	}
	return New(0)
}

// BulkResult reports what SelectAll did.
type BulkResult struct {
	// Added is the number of keys newly selected.
	Added int

	// AlreadySelected is the number of keys that were selected before.
	AlreadySelected int

	// Skipped is the number of keys left out because the store was full.
	Skipped int
}

// Truncated reports whether the limit stopped keys from being added.
func (r BulkResult) Truncated() bool {
	return r.Skipped > 0
}

// Toggle flips the membership of k. Adding to a full store fails with an
// error wrapping types.ErrLimitExceeded and leaves the store unchanged.
func (s *Store) Toggle(k types.Key) error {
	s.init()
	if _, ok := s.keys[k]; ok {
		delete(s.keys, k)
		return nil
	}
	if s.full() {
		return fmt.Errorf("%w: cannot select more than %d", types.ErrLimitExceeded, s.limit)
	}
	s.keys[k] = struct{}{}
	return nil
}

// SelectAll adds keys in order until the store is full. Keys already
// selected are counted but use no capacity.
func (s *Store) SelectAll(keys []types.Key) BulkResult {
	s.init()
	var res BulkResult
	for _, k := range keys {
		if _, ok := s.keys[k]; ok {
			res.AlreadySelected++
			continue
		}
		if s.full() {
			res.Skipped++
			continue
		}
		s.keys[k] = struct{}{}
		res.Added++
	}
	return res
}

// SelectOnly replaces the selection with exactly keys. Duplicates in keys
// count once. When there are more unique keys than the limit the call fails
// with types.ErrLimitExceeded and the store is unchanged.
func (s *Store) SelectOnly(keys []types.Key) error {
	next := make(map[types.Key]struct{}, len(keys))
	for _, k := range keys {
		next[k] = struct{}{}
	}
	if s.limit > 0 && len(next) > s.limit {
		return fmt.Errorf("%w: %d keys requested, limit is %d", types.ErrLimitExceeded, len(next), s.limit)
	}
	s.keys = next
	return nil
}

// DeselectAll empties the store.
func (s *Store) DeselectAll() {
	s.keys = make(map[types.Key]struct{})
}

// IsSelected reports whether k is selected.
func (s *Store) IsSelected(k types.Key) bool {
	_, ok := s.keys[k]
	return ok
}

// Len returns the number of selected keys.
func (s *Store) Len() int { return len(s.keys) }

// Limit returns the bound, or zero for an unbounded store.
func (s *Store) Limit() int { return s.limit }

// Remaining returns how many more keys fit, or -1 for an unbounded store.
func (s *Store) Remaining() int {
	if s.limit <= 0 {
		return -1
	}
	return s.limit - len(s.keys)
}

// Intersect returns the selected keys that are also in set. The store is
// not modified.
func (s *Store) Intersect(set map[types.Key]struct{}) map[types.Key]struct{} {
	small, large := set, s.keys
	if len(small) > len(large) {
		small, large = large, small
	}
	out := make(map[types.Key]struct{})
	for k := range small {
		if _, ok := large[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Keys returns a snapshot of the selection in natural numeric order.
func (s *Store) Keys() []types.Key {
	keys := make([]types.Key, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	types.SortKeys(keys)
	return keys
}

func (s *Store) full() bool {
	return s.limit > 0 && len(s.keys) >= s.limit
}

func (s *Store) init() {
	if s.keys == nil {
		s.keys = make(map[types.Key]struct{})
	}
}
