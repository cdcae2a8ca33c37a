// =============================================================================
// OpenGD77 CSV Converter - Field Coercion
// =============================================================================
//
// This module holds the small, pure functions that turn raw vendor cell text
// into OpenGD77 field values. The dialect mappers are built from them.
//
// COERCIONS:
//   parseInteger       "7", " 07 ", "7.0", "2621234.0"  -> 7, 7, 7, 2621234
//   positiveIntString  "3" -> "3", "0" / "" / "x" -> absent
//   toneValue          "88.5" -> "88.5", "None" / "0" / "" -> ""
//   joinCallsignName   ("DL1ABC", "John") -> "DL1ABC John"
//   cleanContactName   `"Bob, Jr."` -> "Bob  Jr."
//   isDecimal          "438.500" -> true, "abc" -> false
//
// =============================================================================

package converter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// NUMERIC COERCION
// =============================================================================

// parseInteger parses a whole number from cell text.
//
// Spreadsheet round trips turn 2621234 into "2621234.0", so integral decimals
// are accepted. Fractions, NaN, infinities and non-numeric text are errors.
func parseInteger(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("value is empty")
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("value %q is not a whole number", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("value %q is out of range", s)
	}
	return int(f), nil
}

// positiveIntString returns the canonical integer text of s when it is a
// whole number greater than zero. Anything else is absent.
func positiveIntString(s string) (string, bool) {
	n, err := parseInteger(s)
	if err != nil || n <= 0 {
		return "", false
	}
	return strconv.Itoa(n), true
}

// isDecimal reports whether s is a finite decimal number.
func isDecimal(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// =============================================================================
// TONES
// =============================================================================

// toneValue maps the vendor encode tone to the OpenGD77 TX Tone field.
// Blank, "None" in any case and a numeric zero all mean no tone.
func toneValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
		return ""
	}
	return s
}

// =============================================================================
// CONTACT NAMES
// =============================================================================

// joinCallsignName builds a DC9AL contact name. The name part is only added
// when it has content.
func joinCallsignName(callsign, name string) string {
	callsign = strings.TrimSpace(callsign)
	name = strings.TrimSpace(name)
	if name == "" {
		return callsign
	}
	return strings.TrimSpace(callsign + " " + name)
}

// contactNameReplacer removes quotes and turns commas into spaces. OpenGD77
// CPS rejects quoted names and the comma clashes with its CSV import.
var contactNameReplacer = strings.NewReplacer(`"`, "", "'", "", ",", " ")

// cleanContactName strips characters the radio cannot store.
func cleanContactName(s string) string {
	return strings.TrimSpace(contactNameReplacer.Replace(s))
}
