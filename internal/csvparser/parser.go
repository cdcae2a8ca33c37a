// =============================================================================
// OpenGD77 CSV Converter - CSV Parser Module
// =============================================================================
//
// This module reads the CSV exports written by vendor programming software
// (TYT/Retevis CPS, DC9AL contact lists) into a generic table: one header row
// followed by data rows keyed by header name. It knows nothing about dialects;
// the converter decides what the columns mean.
//
// ENCODINGS:
//   Vendor software writes whatever the host code page happens to be. The file
//   is read once and decoded with each configured encoding in order; the first
//   one that decodes without error wins and is recorded on the result.
//
//   utf-8       valid UTF-8 only (a leading BOM is dropped)
//   cp1252      Windows-1252
//   iso-8859-1  ISO-8859-1
//   latin-1     same table as ISO-8859-1, kept as its own step so the
//               configured order reads like the tool's documentation
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/opengd77-converter/internal/config"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData is a parsed table.
type CSVData struct {
	// Headers contains the cleaned column headers in file order.
	Headers []string

	// Rows contains the non-empty data rows.
	Rows []Row

	// SourceFile is the path the table was read from.
	SourceFile string

	// Encoding is the encoding that decoded the file ("xlsx" for workbooks).
	Encoding string
}

// Row is one data row.
type Row struct {
	// Line is the 1-based line of the row in the source file, used in
	// error messages.
	Line int

	// Fields maps header to trimmed cell value. Missing cells are "".
	Fields map[string]string
}

// Get returns the value of a column, or "" when the column does not exist.
func (r Row) Get(header string) string {
	return r.Fields[header]
}

// Lookup returns the value of a column and whether the column exists.
func (r Row) Lookup(header string) (string, bool) {
	v, ok := r.Fields[header]
	return v, ok
}

// Settings controls how a file is read.
type Settings struct {
	// Delimiter is the field separator, in any spelling config.DelimiterRune accepts.
	Delimiter string

	// Encodings is the ordered fallback list.
	Encodings []string
}

// SettingsFromConfig builds parser settings from the application configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Delimiter: cfg.InputDelimiter,
		Encodings: cfg.Encodings,
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// Every failure wraps types.ErrIO: the file could not be opened, no encoding
// decoded it, or the CSV structure is broken.
func Parse(filePath string, settings Settings) (*CSVData, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file: %w", types.ErrIO, err)
	}

	text, encodingName, err := Decode(raw, settings.Encodings)
	if err != nil {
		return nil, err
	}

	data, err := ParseString(text, settings)
	if err != nil {
		return nil, err
	}

	data.SourceFile = filePath
	data.Encoding = encodingName
	return data, nil
}

// ParseString parses already-decoded CSV text.
func ParseString(text string, settings Settings) (*CSVData, error) {
	csvReader := csv.NewReader(strings.NewReader(text))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	var (
		headers []string
		rows    []Row
	)

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV: %w", types.ErrIO, err)
		}

		if headers == nil {
			headers = cleanHeaders(record)
			continue
		}

		if isRowEmpty(record) {
			continue
		}

		line, _ := csvReader.FieldPos(0)
		rows = append(rows, Row{Line: line, Fields: rowFields(headers, record)})
	}

	if headers == nil {
		return nil, fmt.Errorf("%w: CSV file is empty", types.ErrIO)
	}

	return &CSVData{Headers: headers, Rows: rows}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) error {
	comma, err := config.DelimiterRune(settings.Delimiter)
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Vendor exports are not consistent about trailing separators.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return nil
}

// cleanHeaders trims headers, drops a BOM and names blank headers by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimPrefix(header, "\uFEFF")
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		cleaned[i] = header
	}

	return cleaned
}

// rowFields converts a record into a header -> trimmed value map.
func rowFields(headers, record []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(record) {
			fields[header] = strings.TrimSpace(record[i])
		} else {
			fields[header] = ""
		}
	}
	return fields
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ENCODING FALLBACK
// =============================================================================

// Decode converts raw bytes to a string with the first encoding that accepts
// them and returns that encoding's normalized name.
func Decode(raw []byte, encodings []string) (string, string, error) {
	if len(encodings) == 0 {
		encodings = config.DefaultEncodings
	}

	for _, name := range encodings {
		name = config.NormalizeEncoding(name)

		if name == "utf-8" {
			b := raw
			if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
				b = b[3:]
			}
			if utf8.Valid(b) {
				return string(b), name, nil
			}
			continue
		}

		enc := charmapFor(name)
		if enc == nil {
			continue
		}
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		return string(decoded), name, nil
	}

	return "", "", fmt.Errorf("%w: failed to decode file with encodings %s",
		types.ErrIO, strings.Join(encodings, ", "))
}

func charmapFor(name string) encoding.Encoding {
	switch name {
	case "cp1252":
		return charmap.Windows1252
	case "iso-8859-1", "latin-1":
		return charmap.ISO8859_1
	case "iso-8859-15":
		return charmap.ISO8859_15
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// HasColumns reports whether every named column is present.
func (d *CSVData) HasColumns(names ...string) bool {
	for _, name := range names {
		if !d.HasColumn(name) {
			return false
		}
	}
	return true
}

// HasColumn reports whether a column is present.
func (d *CSVData) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns all values for a specific column.
func (d *CSVData) Column(header string) []string {
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row.Fields[header]
	}
	return values
}

// New builds a table from in-memory headers and rows. Rows are numbered as if
// the header were on line 1.
func New(headers []string, records [][]string) *CSVData {
	headers = cleanHeaders(headers)
	data := &CSVData{Headers: headers}
	for i, record := range records {
		if isRowEmpty(record) {
			continue
		}
		data.Rows = append(data.Rows, Row{Line: i + 2, Fields: rowFields(headers, record)})
	}
	return data
}
