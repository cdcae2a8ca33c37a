package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/opengd77-converter/internal/converter"
	"github.com/ginjaninja78/opengd77-converter/internal/logging"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/internal/validation"
)

// errNothingConverted is returned when every given input failed.
var errNothingConverted = errors.New("no input file could be converted")

// inputs holds the conversion results of one run. A nil result means the
// file was not given or failed to convert.
type inputs struct {
	Contacts *converter.Result[types.Contact]
	Channels *converter.Result[types.Channel]
}

// contactRecords returns the converted contacts, or nil when none were loaded.
func (in inputs) contactRecords() []types.Contact {
	if in.Contacts == nil {
		return nil
	}
	if in.Contacts.Records == nil {
		return []types.Contact{}
	}
	return in.Contacts.Records
}

// channelRecords returns the converted channels, or nil when none were loaded.
func (in inputs) channelRecords() []types.Channel {
	if in.Channels == nil {
		return nil
	}
	if in.Channels.Records == nil {
		return []types.Channel{}
	}
	return in.Channels.Records
}

// addInputFlags registers --contacts and --channels on a command.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("contacts", "", "Contacts export (TYT/Retevis or DC9AL, .csv or .xlsx)")
	cmd.Flags().String("channels", "", "Channels export (TYT/Retevis, .csv or .xlsx)")
}

// convertInputs converts the contacts and channels files named by the flags
// (or GD77_CONTACTS and GD77_CHANNELS).
//
// PARAMETERS:
//   - out: Where per-file failures are reported.
//
// RETURNS:
//   - The results of the files that converted.
//   - errNothingConverted if no file was given or every file failed.
//
// A failure in one file is reported and the other file still converts.
func convertInputs(out io.Writer) (inputs, error) {
	contactsPath := v.GetString("contacts")
	channelsPath := v.GetString("channels")

	if contactsPath == "" && channelsPath == "" {
		return inputs{}, fmt.Errorf("%w: give --contacts and/or --channels", errNothingConverted)
	}

	conv := converter.New(cfg, logging.NewObserver(logger))

	var in inputs
	if contactsPath != "" {
		res, err := conv.ConvertContacts(contactsPath)
		if err != nil {
			reportFailure(out, "contacts", contactsPath, err)
		} else {
			in.Contacts = res
		}
	}
	if channelsPath != "" {
		res, err := conv.ConvertChannels(channelsPath)
		if err != nil {
			reportFailure(out, "channels", channelsPath, err)
		} else {
			in.Channels = res
		}
	}

	if in.Contacts == nil && in.Channels == nil {
		return in, errNothingConverted
	}
	return in, nil
}

// reportFailure prints a failed file with its row errors.
func reportFailure(out io.Writer, kind, path string, err error) {
	fmt.Fprintf(out, "  ✗ %s %s: could not be converted\n", kind, filepath.Base(path))

	var rowErrs validation.Errors
	if errors.As(err, &rowErrs) {
		fmt.Fprint(out, validation.FormatErrors(rowErrs))
		return
	}
	fmt.Fprintf(out, "    %v\n", err)
}
