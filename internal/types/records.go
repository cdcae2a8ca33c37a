// =============================================================================
// OpenGD77 CSV Converter - Shared Types
// =============================================================================
//
// This package contains the record types shared by every stage of the
// pipeline. Keeping them here avoids import cycles between:
//   - converter   (produces record sets)
//   - validation  (checks record sets)
//   - view        (projects record sets)
//   - export      (selects from record sets)
//   - csvwriter   (renders record sets)
//
// =============================================================================

package types

// =============================================================================
// LIMITS
// =============================================================================

// MaxContacts is the number of contacts an OpenGD77 radio accepts.
// It bounds what may be exported, never what is converted.
const MaxContacts = 1024

// Excess returns how many contacts exceed MaxContacts.
func Excess(total int) int {
	if total <= MaxContacts {
		return 0
	}
	return total - MaxContacts
}

// =============================================================================
// RECORD KINDS
// =============================================================================

// Kind identifies a record kind.
type Kind string

const (
	KindContacts Kind = "contacts"
	KindChannels Kind = "channels"
)

// Record is the read-only view of a converted record used by projections
// and the export assembler.
type Record interface {
	// Key is the canonical identifier of the record.
	Key() Key

	// DisplayName is the field matched by the search box.
	DisplayName() string

	// Category is the value matched by the type filter.
	Category() string
}

// =============================================================================
// CONTACTS
// =============================================================================

// IDType is the OpenGD77 contact type.
type IDType string

const (
	IDTypeGroup   IDType = "Group"
	IDTypePrivate IDType = "Private"
)

// Valid reports whether t is one of the known contact types.
func (t IDType) Valid() bool {
	return t == IDTypeGroup || t == IDTypePrivate
}

// DefaultTSOverride is written for every converted contact.
const DefaultTSOverride = "None"

// Contact is a contact in OpenGD77 shape.
type Contact struct {
	// ContactName is never empty after conversion.
	ContactName string

	// ID is the DMR ID. It is positive and unique within a record set.
	ID int

	// IDType is Group for talk groups and Private for individual radios.
	IDType IDType

	// TSOverride is "None" unless a dialect supplies something else.
	TSOverride string
}

// Key implements Record.
func (c Contact) Key() Key { return KeyFromInt(c.ID) }

// DisplayName implements Record.
func (c Contact) DisplayName() string { return c.ContactName }

// Category implements Record.
func (c Contact) Category() string { return string(c.IDType) }

// =============================================================================
// CHANNELS
// =============================================================================

// ChannelType is the OpenGD77 channel mode.
type ChannelType string

const (
	ChannelAnalogue ChannelType = "Analogue"
	ChannelDigital  ChannelType = "Digital"
)

// Valid reports whether t is one of the known channel types.
func (t ChannelType) Valid() bool {
	return t == ChannelAnalogue || t == ChannelDigital
}

// AnalogueBandwidth is the bandwidth written for analogue channels, in kHz.
const AnalogueBandwidth = "25"

// Channel is a channel in OpenGD77 shape.
//
// ChannelNumber is assigned from input row order during conversion. It is an
// output of the conversion and is never read from an input file.
type Channel struct {
	ChannelNumber int
	ChannelName   string
	ChannelType   ChannelType
	RxFrequency   string
	TxFrequency   string

	// Bandwidth is set for analogue channels only.
	Bandwidth string

	// ColourCode and Timeslot are set for digital channels with a
	// positive source value only.
	ColourCode string
	Timeslot   string

	Contact     string
	TGList      string
	DMRID       string
	TS1TATx     string
	TS2TATx     string
	RxTone      string
	TxTone      string
	Squelch     string
	Power       string
	RxOnly      string
	ZoneSkip    string
	AllSkip     string
	TOT         string
	VOX         string
	NoBeep      string
	NoEco       string
	APRS        string
	Latitude    string
	Longitude   string
	UseLocation string
}

// NewChannel returns a channel with the fixed OpenGD77 defaults filled in.
func NewChannel(number int) Channel {
	return Channel{
		ChannelNumber: number,
		Contact:       "None",
		TGList:        "None",
		DMRID:         "None",
		TS1TATx:       "Off",
		TS2TATx:       "Off",
		Squelch:       "Master",
		Power:         "Master",
		RxOnly:        "No",
		ZoneSkip:      "No",
		AllSkip:       "No",
		TOT:           "180",
		VOX:           "Off",
		NoBeep:        "No",
		NoEco:         "No",
		APRS:          "None",
		Latitude:      "0",
		Longitude:     "0",
		UseLocation:   "No",
	}
}

// Key implements Record.
func (c Channel) Key() Key { return KeyFromInt(c.ChannelNumber) }

// DisplayName implements Record.
func (c Channel) DisplayName() string { return c.ChannelName }

// Category implements Record.
func (c Channel) Category() string { return string(c.ChannelType) }
