// =============================================================================
// OpenGD77 CSV Converter - Dialect Registry
// =============================================================================
//
// A dialect is one vendor's CSV layout. It is recognised by a signature (the
// set of columns that must all be present) and mapped to OpenGD77 records by
// its Map function. Detection walks the registry in order and takes the first
// match, so more specific signatures must come first.
//
// CONTACT DIALECTS:
//   TYT     Call Type, Call ID          TYT/Retevis CPS contact export
//   DC9AL   Radio ID, Callsign          DC9AL user database list
//
// CHANNEL DIALECTS:
//   TYT     Channel Name, Channel Mode, RX Frequency(MHz), TX Frequency(MHz)
//
// =============================================================================

package converter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ginjaninja78/opengd77-converter/internal/csvparser"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/internal/validation"
)

// Dialect names.
const (
	DialectTYT   = "TYT"
	DialectDC9AL = "DC9AL"
)

// Source column names.
const (
	colContactName = "Contact Name"
	colCallType    = "Call Type"
	colCallID      = "Call ID"

	colRadioID  = "Radio ID"
	colCallsign = "Callsign"
	colName     = "Name"

	colChannelName  = "Channel Name"
	colChannelMode  = "Channel Mode"
	colRxFrequency  = "RX Frequency(MHz)"
	colTxFrequency  = "TX Frequency(MHz)"
	colColorCode    = "Color Code"
	colRepeaterSlot = "Repeater Slot"
	colToneEncode   = "CTCSS/DCS Enc"
)

// =============================================================================
// REGISTRY
// =============================================================================

// Dialect describes one vendor layout.
type Dialect[R types.Record] struct {
	// Name identifies the dialect in logs and results.
	Name string

	// Signature lists the columns that must all be present.
	Signature []string

	// Map converts the table. A row-level failure the dialect cannot recover
	// from is returned as validation.Errors.
	Map func(table *csvparser.CSVData) (*Mapped[R], error)
}

// Matches reports whether every signature column is present in table.
func (d Dialect[R]) Matches(table *csvparser.CSVData) bool {
	return table.HasColumns(d.Signature...)
}

// Mapped is what a dialect mapper produces.
type Mapped[R types.Record] struct {
	// Records holds the kept records in input order.
	Records []R

	// Dropped lists the rows the dialect discards by rule.
	Dropped []Drop

	// Duplicates counts rows dropped because their key was already taken.
	// These rows are also listed in Dropped.
	Duplicates int
}

// Drop describes one discarded row.
type Drop struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (m *Mapped[R]) drop(line int, field, value, reason string) {
	m.Dropped = append(m.Dropped, Drop{Line: line, Field: field, Value: value, Reason: reason})
}

// ContactDialects is the ordered contact registry.
var ContactDialects = []Dialect[types.Contact]{
	{Name: DialectTYT, Signature: []string{colCallType, colCallID}, Map: mapTYTContacts},
	{Name: DialectDC9AL, Signature: []string{colRadioID, colCallsign}, Map: mapDC9ALContacts},
}

// ChannelDialects is the ordered channel registry.
var ChannelDialects = []Dialect[types.Channel]{
	{
		Name:      DialectTYT,
		Signature: []string{colChannelName, colChannelMode, colRxFrequency, colTxFrequency},
		Map:       mapTYTChannels,
	},
}

// Detect returns the first dialect whose signature matches the table.
func Detect[R types.Record](table *csvparser.CSVData, dialects []Dialect[R]) (Dialect[R], error) {
	for _, d := range dialects {
		if d.Matches(table) {
			return d, nil
		}
	}

	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = d.Name
	}
	return Dialect[R]{}, fmt.Errorf("%w: columns [%s] match none of %s",
		types.ErrUnrecognizedFormat, strings.Join(table.Headers, ", "), strings.Join(names, ", "))
}

// =============================================================================
// TYT CONTACTS
// =============================================================================

// mapTYTContacts maps a TYT contact export. Every row must map cleanly; the
// first duplicate ID wins.
func mapTYTContacts(table *csvparser.CSVData) (*Mapped[types.Contact], error) {
	out := &Mapped[types.Contact]{}
	var errs validation.Errors
	seen := make(map[int]struct{}, len(table.Rows))

	for _, row := range table.Rows {
		rowErrs := len(errs)

		name := strings.TrimSpace(row.Get(colContactName))
		if name == "" {
			errs = append(errs, validation.NewError(row.Line, colContactName, name,
				validation.RuleRequired, "contact name is empty"))
		}

		idType, ok := tytCallType(row.Get(colCallType))
		if !ok {
			errs = append(errs, validation.NewError(row.Line, colCallType, row.Get(colCallType),
				validation.RuleEnum, "call type must be 1 (group) or 2 (private)"))
		}

		id, err := parseInteger(row.Get(colCallID))
		switch {
		case err != nil:
			errs = append(errs, validation.NewError(row.Line, colCallID, row.Get(colCallID),
				validation.RuleInteger, err.Error()))
		case id <= 0:
			errs = append(errs, validation.NewError(row.Line, colCallID, row.Get(colCallID),
				validation.RulePositive, "call ID must be greater than zero"))
		}

		if len(errs) > rowErrs {
			continue
		}

		if _, dup := seen[id]; dup {
			out.Duplicates++
			out.drop(row.Line, colCallID, row.Get(colCallID), "duplicate ID")
			continue
		}
		seen[id] = struct{}{}

		out.Records = append(out.Records, types.Contact{
			ContactName: name,
			ID:          id,
			IDType:      idType,
			TSOverride:  types.DefaultTSOverride,
		})
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func tytCallType(s string) (types.IDType, bool) {
	n, err := parseInteger(s)
	if err != nil {
		return "", false
	}
	switch n {
	case 1:
		return types.IDTypeGroup, true
	case 2:
		return types.IDTypePrivate, true
	}
	return "", false
}

// =============================================================================
// DC9AL CONTACTS
// =============================================================================

// mapDC9ALContacts maps a DC9AL user list. Rows that cannot become a usable
// private contact are dropped, never reported as errors.
func mapDC9ALContacts(table *csvparser.CSVData) (*Mapped[types.Contact], error) {
	out := &Mapped[types.Contact]{}
	seen := make(map[int]struct{}, len(table.Rows))

	for _, row := range table.Rows {
		raw := row.Get(colRadioID)

		id, err := parseInteger(raw)
		if err != nil {
			out.drop(row.Line, colRadioID, raw, "radio ID is not a number")
			continue
		}
		if id <= 0 {
			out.drop(row.Line, colRadioID, raw, "radio ID is not positive")
			continue
		}
		if _, dup := seen[id]; dup {
			out.Duplicates++
			out.drop(row.Line, colRadioID, raw, "duplicate ID")
			continue
		}
		seen[id] = struct{}{}

		name := cleanContactName(joinCallsignName(row.Get(colCallsign), row.Get(colName)))
		if name == "" {
			out.drop(row.Line, colCallsign, row.Get(colCallsign), "contact name is empty")
			continue
		}

		out.Records = append(out.Records, types.Contact{
			ContactName: name,
			ID:          id,
			IDType:      types.IDTypePrivate,
			TSOverride:  types.DefaultTSOverride,
		})
	}

	return out, nil
}

// =============================================================================
// TYT CHANNELS
// =============================================================================

// mapTYTChannels maps a TYT channel export. Channel numbers follow row order.
func mapTYTChannels(table *csvparser.CSVData) (*Mapped[types.Channel], error) {
	out := &Mapped[types.Channel]{}
	var errs validation.Errors

	for i, row := range table.Rows {
		rowErrs := len(errs)
		ch := types.NewChannel(i + 1)

		ch.ChannelName = row.Get(colChannelName)

		mode := row.Get(colChannelMode)
		switch n, err := parseInteger(mode); {
		case err == nil && n == 1:
			ch.ChannelType = types.ChannelAnalogue
			ch.Bandwidth = types.AnalogueBandwidth
		case err == nil && n == 2:
			ch.ChannelType = types.ChannelDigital
			ch.ColourCode, _ = positiveIntString(row.Get(colColorCode))
			ch.Timeslot, _ = positiveIntString(row.Get(colRepeaterSlot))
		default:
			errs = append(errs, validation.NewError(row.Line, colChannelMode, mode,
				validation.RuleEnum, "channel mode must be 1 (analogue) or 2 (digital)"))
		}

		ch.RxFrequency = row.Get(colRxFrequency)
		ch.TxFrequency = row.Get(colTxFrequency)
		for _, f := range []struct{ col, val string }{
			{colRxFrequency, ch.RxFrequency},
			{colTxFrequency, ch.TxFrequency},
		} {
			if !isDecimal(f.val) {
				errs = append(errs, validation.NewError(row.Line, f.col, f.val,
					validation.RuleDecimal, "frequency must be a decimal number of MHz"))
			}
		}

		ch.TxTone = toneValue(row.Get(colToneEncode))

		if len(errs) > rowErrs {
			continue
		}
		out.Records = append(out.Records, ch)
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// SUMMARIES
// =============================================================================

// countBy returns "Group: 3, Private: 5" style summaries in a stable order.
func countBy[R types.Record](records []R) string {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Category()]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + strconv.Itoa(counts[k])
	}
	return strings.Join(parts, ", ")
}
