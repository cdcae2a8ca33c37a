package converter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/internal/validation"
)

func writeCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// recorder collects observer events.
type recorder struct {
	events []types.Event
}

func (r *recorder) Observe(e types.Event) { r.events = append(r.events, e) }

func (r *recorder) names() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

func TestConvertContacts_TYT(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "tyt.csv",
		"No.,Contact Name,Call Type,Call ID,Call Receive Tone",
		"1,Alice,1,100100,No",
		"2,Bob,2,3100200,No",
		"3,Bob again,2,3100200,No",
	)

	rec := &recorder{}
	res, err := New(nil, rec).ConvertContacts(path)
	require.NoError(t, err)

	assert.Equal(t, DialectTYT, res.Dialect)
	assert.Equal(t, "utf-8", res.Encoding)
	require.Len(t, res.Records, 2)
	assert.Equal(t, types.Contact{ContactName: "Alice", ID: 100100, IDType: types.IDTypeGroup, TSOverride: "None"}, res.Records[0])
	assert.Equal(t, types.IDTypePrivate, res.Records[1].IDType)
	assert.Equal(t, "Bob", res.Records[1].ContactName)

	assert.Equal(t, 3, res.Stats.RowsRead)
	assert.Equal(t, 2, res.Stats.RowsKept)
	assert.Equal(t, 1, res.Stats.Duplicates)
	assert.Equal(t, 1, res.Stats.RowsDropped)
	assert.Zero(t, res.Stats.Excess)

	assert.Contains(t, rec.names(), types.EventFileLoaded)
	assert.Contains(t, rec.names(), types.EventDialectDetected)
	assert.Contains(t, rec.names(), types.EventConverted)
}

func TestConvertContacts_TYTUnknownCallType(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "tyt.csv",
		"Contact Name,Call Type,Call ID",
		"Alice,1,100100",
		"All Call,3,16777215",
		",2,abc",
	)

	_, err := New(nil, nil).ConvertContacts(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrValidation)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)
	assert.Equal(t, 3, verrs[0].Row)
	assert.Equal(t, "Call Type", verrs[0].Field)
	assert.Equal(t, 4, verrs[1].Row)
	assert.Equal(t, "Contact Name", verrs[1].Field)
	assert.Equal(t, "Call ID", verrs[2].Field)
}

func TestConvertContacts_DC9AL(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "dc9al.csv",
		"Radio ID,Callsign,Name,City,State,Country",
		"2621234,DL1ABC,John,Berlin,,Germany",
		"abc,DL2XYZ,Eve,,,",
		"0,DL3ZZZ,Zero,,,",
		"2621234.0,DL1ABC,Duplicate,,,",
		`2625555,DB0XX,"Smith, Jr.",,,`,
		"2627777,,,,,",
		"2628888,DO1ONE,,,,",
	)

	rec := &recorder{}
	res, err := New(nil, rec).ConvertContacts(path)
	require.NoError(t, err)

	assert.Equal(t, DialectDC9AL, res.Dialect)
	require.Len(t, res.Records, 3)
	assert.Equal(t, types.Contact{ContactName: "DL1ABC John", ID: 2621234, IDType: types.IDTypePrivate, TSOverride: "None"}, res.Records[0])
	assert.Equal(t, "DB0XX Smith  Jr.", res.Records[1].ContactName)
	assert.Equal(t, "DO1ONE", res.Records[2].ContactName)

	for _, c := range res.Records {
		assert.Equal(t, types.IDTypePrivate, c.IDType)
	}

	assert.Equal(t, 7, res.Stats.RowsRead)
	assert.Equal(t, 4, res.Stats.RowsDropped)
	assert.Equal(t, 1, res.Stats.Duplicates)
	assert.Contains(t, rec.names(), types.EventRowsDropped)
}

func TestConvertContacts_DC9ALAllInvalid(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "dc9al.csv",
		"Radio ID,Callsign,Name",
		"x,DL1ABC,John",
		"-5,DL2ABC,Jane",
	)

	res, err := New(nil, nil).ConvertContacts(path)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 2, res.Stats.RowsDropped)
}

func TestConvertContacts_Excess(t *testing.T) {
	t.Parallel()

	lines := []string{"Radio ID,Callsign,Name"}
	for i := 1; i <= types.MaxContacts+10; i++ {
		lines = append(lines, strings.Join([]string{itoa(i), "CALL" + itoa(i), ""}, ","))
	}
	path := writeCSV(t, "big.csv", lines...)

	rec := &recorder{}
	res, err := New(nil, rec).ConvertContacts(path)
	require.NoError(t, err)

	assert.Len(t, res.Records, types.MaxContacts+10)
	assert.Equal(t, 10, res.Stats.Excess)
	assert.Contains(t, rec.names(), types.EventContactExcess)
}

func TestConvertContacts_Unrecognized(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "other.csv", "Foo,Bar", "1,2")

	_, err := New(nil, nil).ConvertContacts(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnrecognizedFormat)
	assert.Contains(t, err.Error(), "Foo, Bar")
}

func TestConvertContacts_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil).ConvertContacts(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestConvertChannels_TYT(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "channels.csv",
		"No.,Channel Name,Channel Mode,RX Frequency(MHz),TX Frequency(MHz),Color Code,Repeater Slot,CTCSS/DCS Enc",
		"1,DB0ABC,2,438.500,430.900,3,1,None",
		"2,Calling,1,145.500,145.500,0,0,88.5",
		"3,Simplex,1,145.525,145.525,1,1,0",
		"4,DMR Simplex,2,433.450,433.450,0,2,",
	)

	res, err := New(nil, nil).ConvertChannels(path)
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	dig := res.Records[0]
	assert.Equal(t, 1, dig.ChannelNumber)
	assert.Equal(t, "DB0ABC", dig.ChannelName)
	assert.Equal(t, types.ChannelDigital, dig.ChannelType)
	assert.Equal(t, "3", dig.ColourCode)
	assert.Equal(t, "1", dig.Timeslot)
	assert.Empty(t, dig.Bandwidth)
	assert.Empty(t, dig.TxTone)
	assert.Equal(t, "438.500", dig.RxFrequency)
	assert.Equal(t, "430.900", dig.TxFrequency)

	ana := res.Records[1]
	assert.Equal(t, 2, ana.ChannelNumber)
	assert.Equal(t, types.ChannelAnalogue, ana.ChannelType)
	assert.Equal(t, "25", ana.Bandwidth)
	assert.Empty(t, ana.ColourCode)
	assert.Empty(t, ana.Timeslot)
	assert.Equal(t, "88.5", ana.TxTone)
	assert.Empty(t, ana.RxTone)

	// Colour code and slot are digital-only even when the source has them.
	assert.Empty(t, res.Records[2].ColourCode)
	assert.Empty(t, res.Records[2].TxTone)

	assert.Empty(t, res.Records[3].ColourCode)
	assert.Equal(t, "2", res.Records[3].Timeslot)

	for _, ch := range res.Records {
		assert.Equal(t, "None", ch.Contact)
		assert.Equal(t, "Master", ch.Power)
		assert.Equal(t, "180", ch.TOT)
	}
}

func TestConvertChannels_Invalid(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "channels.csv",
		"Channel Name,Channel Mode,RX Frequency(MHz),TX Frequency(MHz)",
		"A,3,145.500,145.500",
		"B,1,abc,145.500",
	)

	_, err := New(nil, nil).ConvertChannels(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrValidation)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}

func TestConvertChannels_NotAChannelFile(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "contacts.csv", "Contact Name,Call Type,Call ID", "A,1,1")

	_, err := New(nil, nil).ConvertChannels(path)
	assert.ErrorIs(t, err, types.ErrUnrecognizedFormat)
}

func TestConvertContacts_XLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Contact Name", "Call Type", "Call ID"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"TG 91", 1, 91}))

	path := filepath.Join(t.TempDir(), "contacts.xlsx")
	require.NoError(t, f.SaveAs(path))

	res, err := New(nil, nil).ConvertContacts(path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", res.Encoding)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 91, res.Records[0].ID)
}

func TestDetect_Order(t *testing.T) {
	t.Parallel()

	// A table carrying both signatures is TYT because TYT is registered first.
	path := writeCSV(t, "both.csv", "Contact Name,Call Type,Call ID,Radio ID,Callsign", "A,1,1,2,B")
	table, err := ReadTable(path, nil)
	require.NoError(t, err)

	d, err := Detect(table, ContactDialects)
	require.NoError(t, err)
	assert.Equal(t, DialectTYT, d.Name)
}

func itoa(n int) string {
	return types.KeyFromInt(n).String()
}
