// =============================================================================
// OpenGD77 CSV Converter - CSV Writer Module
// =============================================================================
//
// This module renders exported record sets in the CSV layout the OpenGD77 CPS
// imports and writes them to the output directory.
//
// FILE LAYOUT:
//   - UTF-8, no BOM
//   - Semicolon separated (configurable through output_delimiter)
//   - One header line, then one line per record
//   - Fields are quoted only when they contain the delimiter, a quote or a
//     line break
//
//   Contacts.csv
//     Contact Name;ID;ID Type;TS Override
//     TG 91;91;Group;None
//
//   Channels.csv
//     Channel Number;Channel Name;Channel Type;Rx Frequency;...;Use Location
//     1;DB0ABC;Digital;438.500;430.900;;3;1;None;None;None;Off;Off;;;...
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/opengd77-converter/internal/config"
	"github.com/ginjaninja78/opengd77-converter/internal/export"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/pkg/utils"
)

// DefaultDelimiter is the separator OpenGD77 CPS expects.
const DefaultDelimiter = ';'

// =============================================================================
// COLUMN LAYOUT
// =============================================================================

// ContactHeaders is the header line of Contacts.csv.
var ContactHeaders = []string{"Contact Name", "ID", "ID Type", "TS Override"}

// ChannelHeaders is the header line of Channels.csv.
var ChannelHeaders = []string{
	"Channel Number", "Channel Name", "Channel Type", "Rx Frequency", "Tx Frequency",
	"Bandwidth (kHz)", "Colour Code", "Timeslot", "Contact", "TG List", "DMR ID",
	"TS1_TA_Tx", "TS2_TA_Tx", "RX Tone", "TX Tone", "Squelch", "Power", "Rx Only",
	"Zone Skip", "All Skip", "TOT", "VOX", "No Beep", "No Eco", "APRS",
	"Latitude", "Longitude", "Use Location",
}

func contactRow(c types.Contact) []string {
	return []string{c.ContactName, strconv.Itoa(c.ID), string(c.IDType), c.TSOverride}
}

func channelRow(ch types.Channel) []string {
	return []string{
		strconv.Itoa(ch.ChannelNumber), ch.ChannelName, string(ch.ChannelType), ch.RxFrequency, ch.TxFrequency,
		ch.Bandwidth, ch.ColourCode, ch.Timeslot, ch.Contact, ch.TGList, ch.DMRID,
		ch.TS1TATx, ch.TS2TATx, ch.RxTone, ch.TxTone, ch.Squelch, ch.Power, ch.RxOnly,
		ch.ZoneSkip, ch.AllSkip, ch.TOT, ch.VOX, ch.NoBeep, ch.NoEco, ch.APRS,
		ch.Latitude, ch.Longitude, ch.UseLocation,
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderContacts renders Contacts.csv.
func RenderContacts(contacts []types.Contact, delimiter rune) ([]byte, error) {
	return render(ContactHeaders, contacts, contactRow, delimiter)
}

// RenderChannels renders Channels.csv.
func RenderChannels(channels []types.Channel, delimiter rune) ([]byte, error) {
	return render(ChannelHeaders, channels, channelRow, delimiter)
}

func render[R any](headers []string, records []R, row func(R) []string, delimiter rune) ([]byte, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	var buffer bytes.Buffer
	w := csv.NewWriter(&buffer)
	w.Comma = delimiter

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buffer.Bytes(), nil
}

// =============================================================================
// EXPORT SINK
// =============================================================================

// Writer writes an assembled export to disk. It implements export.Sink.
type Writer struct {
	// Dir is the output directory.
	Dir string

	// ContactsFile and ChannelsFile are the file names inside Dir.
	ContactsFile string
	ChannelsFile string

	// Delimiter separates fields. Zero means DefaultDelimiter.
	Delimiter rune
}

var _ export.Sink = (*Writer)(nil)

// NewWriter builds a Writer from the output settings of cfg.
func NewWriter(cfg *config.Config) (*Writer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	delimiter, err := config.DelimiterRune(cfg.OutputDelimiter)
	if err != nil {
		return nil, err
	}
	return &Writer{
		Dir:          cfg.OutputDir,
		ContactsFile: cfg.ContactsFile,
		ChannelsFile: cfg.ChannelsFile,
		Delimiter:    delimiter,
	}, nil
}

// Write renders the selected kinds and writes them together. A kind with a
// nil record slice is not written. Nothing is written when both are nil.
func (w *Writer) Write(res *export.Result) ([]string, error) {
	if res == nil || (res.Contacts == nil && res.Channels == nil) {
		return nil, types.ErrNothingSelected
	}

	var files []utils.FileContent

	if res.Contacts != nil {
		data, err := RenderContacts(res.Contacts, w.Delimiter)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrIO, err)
		}
		files = append(files, utils.FileContent{Name: w.ContactsFile, Data: data})
	}

	if res.Channels != nil {
		data, err := RenderChannels(res.Channels, w.Delimiter)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrIO, err)
		}
		files = append(files, utils.FileContent{Name: w.ChannelsFile, Data: data})
	}

	paths, err := utils.NewFileManager(w.Dir).WriteFilesAtomic(files)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	return paths, nil
}
