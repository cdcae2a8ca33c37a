// =============================================================================
// OpenGD77 CSV Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the
// pipeline for a single input file, from reading the table to a validated
// OpenGD77 record set.
//
// CONVERSION PIPELINE:
//   1. Read the input table (CSV with encoding fallback, or XLSX)
//   2. Detect the vendor dialect from the column headers
//   3. Map rows to OpenGD77 records with the dialect's rules
//   4. Validate the finished record set
//   5. Collect statistics and report them through the observer
//
// Contacts and channels are converted independently: a failure in one file
// never affects the other. Nothing is written here; export is a separate step.
//
// =============================================================================

package converter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/opengd77-converter/internal/config"
	"github.com/ginjaninja78/opengd77-converter/internal/csvparser"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/internal/validation"
	"github.com/ginjaninja78/opengd77-converter/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result[R types.Record] struct {
	// Source is the path of the input file.
	Source string

	// Dialect is the name of the detected vendor dialect.
	Dialect string

	// Encoding is the text encoding the file was read with.
	Encoding string

	// Records is the converted record set in input order. It is never
	// truncated to the contact limit.
	Records []R

	// Dropped lists rows discarded by the dialect rules.
	Dropped []Drop

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about one conversion.
type Stats struct {
	// RowsRead is the number of non-empty data rows in the input.
	RowsRead int

	// RowsKept is the number of records produced.
	RowsKept int

	// RowsDropped is the number of rows discarded by dialect rules,
	// duplicates included.
	RowsDropped int

	// Duplicates is the number of rows dropped for a repeated key.
	Duplicates int

	// Excess is how many contacts exceed types.MaxContacts. Always zero
	// for channels.
	Excess int

	// Duration is the time taken to convert the file.
	Duration time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts vendor exports to OpenGD77 record sets.
type Converter struct {
	cfg      *config.Config
	observer types.Observer
}

// New creates a Converter. A nil cfg uses config.Default and a nil observer
// discards events.
func New(cfg *config.Config, observer types.Observer) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if observer == nil {
		observer = types.NopObserver{}
	}
	return &Converter{cfg: cfg, observer: observer}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// ConvertContacts converts a TYT or DC9AL contact export.
func (c *Converter) ConvertContacts(path string) (*Result[types.Contact], error) {
	res, err := convert(c, path, ContactDialects, validation.ValidateContacts)
	if err != nil {
		return nil, fmt.Errorf("contacts %s: %w", filepath.Base(path), err)
	}

	res.Stats.Excess = types.Excess(len(res.Records))
	if res.Stats.Excess > 0 {
		types.Emit(c.observer, slog.LevelWarn, types.EventContactExcess,
			fmt.Sprintf("%d contacts exceed the OpenGD77 limit of %d; select at most %d for export",
				res.Stats.Excess, types.MaxContacts, types.MaxContacts),
			slog.String("file", path),
			slog.Int("total", len(res.Records)),
			slog.Int("limit", types.MaxContacts),
			slog.Int("excess", res.Stats.Excess),
		)
	}

	return res, nil
}

// ConvertChannels converts a TYT channel export.
func (c *Converter) ConvertChannels(path string) (*Result[types.Channel], error) {
	res, err := convert(c, path, ChannelDialects, validation.ValidateChannels)
	if err != nil {
		return nil, fmt.Errorf("channels %s: %w", filepath.Base(path), err)
	}
	return res, nil
}

// convert runs the pipeline shared by every record kind.
func convert[R types.Record](
	c *Converter,
	path string,
	dialects []Dialect[R],
	validate func([]R) validation.Errors,
) (*Result[R], error) {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	table, err := ReadTable(path, c.cfg)
	if err != nil {
		return nil, err
	}

	types.Emit(c.observer, slog.LevelInfo, types.EventFileLoaded,
		fmt.Sprintf("loaded %d rows from %s (%s)", len(table.Rows), filepath.Base(path), table.Encoding),
		slog.String("file", path),
		slog.String("encoding", table.Encoding),
		slog.Int("rows", len(table.Rows)),
	)

	// =========================================================================
	// STEP 2: DETECT DIALECT
	// =========================================================================

	dialect, err := Detect(table, dialects)
	if err != nil {
		return nil, err
	}

	types.Emit(c.observer, slog.LevelInfo, types.EventDialectDetected,
		fmt.Sprintf("detected %s format", dialect.Name),
		slog.String("file", path),
		slog.String("dialect", dialect.Name),
	)

	// =========================================================================
	// STEP 3: MAP ROWS
	// =========================================================================

	mapped, err := dialect.Map(table)
	if err != nil {
		return nil, err
	}

	for _, d := range mapped.Dropped {
		types.Emit(c.observer, slog.LevelDebug, types.EventRowsDropped,
			fmt.Sprintf("row %d dropped: %s", d.Line, d.Reason),
			slog.String("file", path),
			slog.Int("line", d.Line),
			slog.String("field", d.Field),
			slog.String("value", d.Value),
		)
	}
	if n := len(mapped.Dropped); n > 0 {
		types.Emit(c.observer, slog.LevelWarn, types.EventRowsDropped,
			fmt.Sprintf("%d rows dropped (%d duplicates)", n, mapped.Duplicates),
			slog.String("file", path),
			slog.Int("dropped", n),
			slog.Int("duplicates", mapped.Duplicates),
		)
	}

	// =========================================================================
	// STEP 4: VALIDATE
	// =========================================================================

	if err := validate(mapped.Records).ErrOrNil(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 5: STATISTICS
	// =========================================================================

	res := &Result[R]{
		Source:   path,
		Dialect:  dialect.Name,
		Encoding: table.Encoding,
		Records:  mapped.Records,
		Dropped:  mapped.Dropped,
		Stats: Stats{
			RowsRead:    len(table.Rows),
			RowsKept:    len(mapped.Records),
			RowsDropped: len(mapped.Dropped),
			Duplicates:  mapped.Duplicates,
			Duration:    time.Since(startTime),
		},
	}

	types.Emit(c.observer, slog.LevelInfo, types.EventConverted,
		fmt.Sprintf("converted %s format: %d records (%s)", dialect.Name, len(res.Records), countBy(res.Records)),
		slog.String("file", path),
		slog.String("dialect", dialect.Name),
		slog.Int("records", len(res.Records)),
		slog.Duration("duration", res.Stats.Duration),
	)

	return res, nil
}

// =============================================================================
// INPUT DISPATCH
// =============================================================================

// ReadTable reads an input file with the reader its extension calls for.
func ReadTable(path string, cfg *config.Config) (*csvparser.CSVData, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxparser.Parse(path, cfg.XLSXSheet)
	}
	return csvparser.Parse(path, csvparser.SettingsFromConfig(cfg))
}
