// =============================================================================
// OpenGD77 CSV Converter - Validation Engine
// =============================================================================
//
// This module provides validation for converted records. It is used at two
// levels:
//   1. Row-level: the dialect mappers report a ValidationError for every
//      source row whose value cannot be mapped without guessing
//   2. Record-set level: ValidateContacts and ValidateChannels check the
//      finished record set before it leaves the converter
//
// ERROR HANDLING:
//   - Errors are collected, not returned one at a time
//   - Each error carries the source row (or record key), field and value
//   - Errors (and each ValidationError) unwrap to types.ErrValidation so
//     callers can test the category with errors.Is
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names used in ValidationError.Rule.
const (
	RuleRequired = "required"
	RuleInteger  = "integer"
	RulePositive = "positive"
	RuleDecimal  = "decimal"
	RuleEnum     = "enum"
	RuleUnique   = "unique"
	RuleSequence = "sequence"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	// Severity indicates the severity of the error.
	// "error" = the record set is rejected
	// "warning" = reported only
	Severity string

	// Row is the 1-based line in the source file. Zero when the error was
	// found on a converted record rather than a source row.
	Row int

	// Record is the key of the converted record, when known.
	Record types.Key

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// NewError returns an error-severity ValidationError for a source row.
func NewError(row int, field, value, rule, message string) *ValidationError {
	return &ValidationError{
		Severity: SeverityError,
		Row:      row,
		Field:    field,
		Value:    value,
		Rule:     rule,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.location(),
		e.Field,
		e.Message,
		e.Value,
	)
}

// Unwrap returns types.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return types.ErrValidation
}

func (e *ValidationError) location() string {
	switch {
	case e.Row > 0:
		return fmt.Sprintf("row %d", e.Row)
	case e.Record != "":
		return fmt.Sprintf("record %s", e.Record)
	default:
		return "file"
	}
}

// Errors is a collection of validation errors that is itself an error.
type Errors []*ValidationError

// maxSummarized is how many errors Error() spells out.
const maxSummarized = 3

// Error summarizes the first few errors.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	parts := make([]string, 0, maxSummarized)
	for i, ve := range e {
		if i == maxSummarized {
			break
		}
		parts = append(parts, ve.Error())
	}

	msg := fmt.Sprintf("%d validation error(s): %s", len(e), strings.Join(parts, "; "))
	if len(e) > maxSummarized {
		msg += fmt.Sprintf(" (and %d more)", len(e)-maxSummarized)
	}
	return msg
}

// Unwrap returns types.ErrValidation.
func (e Errors) Unwrap() error {
	return types.ErrValidation
}

// ErrOrNil returns e as an error, or nil when it is empty.
func (e Errors) ErrOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// =============================================================================
// RECORD-SET VALIDATION
// =============================================================================

// ValidateContacts checks a converted contact set.
//
// RULES:
//   - ContactName is not empty
//   - ID is positive and unique
//   - IDType is Group or Private
func ValidateContacts(contacts []types.Contact) Errors {
	var errs Errors
	seen := make(map[int]struct{}, len(contacts))

	for _, c := range contacts {
		key := c.Key()

		if strings.TrimSpace(c.ContactName) == "" {
			errs = append(errs, recordError(key, "Contact Name", c.ContactName, RuleRequired,
				"contact name is empty"))
		}
		if c.ID <= 0 {
			errs = append(errs, recordError(key, "ID", strconv.Itoa(c.ID), RulePositive,
				"ID must be greater than zero"))
		}
		if _, dup := seen[c.ID]; dup {
			errs = append(errs, recordError(key, "ID", strconv.Itoa(c.ID), RuleUnique,
				"ID appears more than once"))
		}
		seen[c.ID] = struct{}{}

		if !c.IDType.Valid() {
			errs = append(errs, recordError(key, "ID Type", string(c.IDType), RuleEnum,
				"ID type must be Group or Private"))
		}
	}

	return errs
}

// ValidateChannels checks a converted channel set.
//
// RULES:
//   - ChannelNumber runs 1..n in order
//   - ChannelType is Analogue or Digital
//   - Rx and Tx frequencies are decimal numbers
func ValidateChannels(channels []types.Channel) Errors {
	var errs Errors

	for i, ch := range channels {
		key := ch.Key()

		if ch.ChannelNumber != i+1 {
			errs = append(errs, recordError(key, "Channel Number", strconv.Itoa(ch.ChannelNumber), RuleSequence,
				fmt.Sprintf("expected channel number %d", i+1)))
		}
		if !ch.ChannelType.Valid() {
			errs = append(errs, recordError(key, "Channel Type", string(ch.ChannelType), RuleEnum,
				"channel type must be Analogue or Digital"))
		}
		if msg := validateDecimal(ch.RxFrequency); msg != "" {
			errs = append(errs, recordError(key, "Rx Frequency", ch.RxFrequency, RuleDecimal, msg))
		}
		if msg := validateDecimal(ch.TxFrequency); msg != "" {
			errs = append(errs, recordError(key, "Tx Frequency", ch.TxFrequency, RuleDecimal, msg))
		}
	}

	return errs
}

func recordError(key types.Key, field, value, rule, message string) *ValidationError {
	return &ValidationError{
		Severity: SeverityError,
		Record:   key,
		Field:    field,
		Value:    value,
		Rule:     rule,
		Message:  message,
	}
}

// =============================================================================
// DATA TYPE VALIDATION
// =============================================================================

// validateDecimal validates that a value is a decimal number.
// It returns an error message, or "" when the value is valid.
func validateDecimal(value string) string {
	value = strings.TrimSpace(value)

	if value == "" {
		return "value is required"
	}

	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return fmt.Sprintf("Value '%s' is not a valid decimal number", value)
	}

	return ""
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
