// =============================================================================
// OpenGD77 CSV Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, the headless conversion pipeline.
//
// COMMAND USAGE:
//   gd77conv convert --contacts FILE --channels FILE [flags]
//
// FLAGS:
//   --contact-type / --channel-type     : Type filter (All, Group, Private,
//                                         Analogue, Digital)
//   --contact-search / --channel-search : Name substring filter
//   --contact-ids / --channel-ids       : Extra records to select by ID
//   --select                            : "visible" selects every record the
//                                         filters show, "none" only the ids
//
// PROCESSING PIPELINE:
//   1. Convert each input file (a failure in one does not stop the other)
//   2. Apply the filters
//   3. Select the visible records and any explicit IDs
//   4. Export the selection to the output directory
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/opengd77-converter/internal/csvwriter"
	"github.com/ginjaninja78/opengd77-converter/internal/export"
	"github.com/ginjaninja78/opengd77-converter/internal/logging"
	"github.com/ginjaninja78/opengd77-converter/internal/selection"
	"github.com/ginjaninja78/opengd77-converter/internal/session"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
	"github.com/ginjaninja78/opengd77-converter/internal/view"
)

const (
	selectVisible = "visible"
	selectNone    = "none"
)

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert exports and write the OpenGD77 CSV files",
	Long: `The convert command detects the format of each input file, converts it,
selects records and writes Contacts.csv and/or Channels.csv for the OpenGD77 CPS.

Only kinds with at least one selected record are written. When more than 1024
contacts are visible only the first 1024 are selected and a warning is logged.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	addInputFlags(convertCmd)

	convertCmd.Flags().String("contact-type", view.TypeAll, "Contact type filter: All, Group, Private")
	convertCmd.Flags().String("contact-search", "", "Contact name filter")
	convertCmd.Flags().String("channel-type", view.TypeAll, "Channel type filter: All, Analogue, Digital")
	convertCmd.Flags().String("channel-search", "", "Channel name filter")
	convertCmd.Flags().StringSlice("contact-ids", nil, "Contact IDs to select in addition to --select")
	convertCmd.Flags().StringSlice("channel-ids", nil, "Channel numbers to select in addition to --select")
	convertCmd.Flags().String("select", selectVisible, "Initial selection: visible or none")
}

// runConvert is the main function that orchestrates the conversion pipeline.
func runConvert(out io.Writer) error {
	mode := strings.ToLower(v.GetString("select"))
	if mode != selectVisible && mode != selectNone {
		return fmt.Errorf("%w: --select must be %q or %q, got %q",
			types.ErrValidation, selectVisible, selectNone, mode)
	}

	// =========================================================================
	// STEP 1: CONVERT INPUTS
	// =========================================================================

	fmt.Fprintln(out, "=== OpenGD77 CSV Converter ===")

	in, err := convertInputs(out)
	if err != nil {
		return err
	}
	printResults(out, in)

	sess := session.New(in.contactRecords(), in.channelRecords(), logging.NewObserver(logger))
	logger.Debug("session started", "session_id", sess.ID)

	// =========================================================================
	// STEP 2-3: FILTER AND SELECT
	// =========================================================================

	if sess.Contacts.Loaded() {
		err := applySelection(sess.Contacts, view.Filter{
			Search: v.GetString("contact-search"),
			Type:   v.GetString("contact-type"),
		}, mode, v.GetStringSlice("contact-ids"))
		if err != nil {
			return fmt.Errorf("contacts: %w", err)
		}
	}
	if sess.Channels.Loaded() {
		err := applySelection(sess.Channels, view.Filter{
			Search: v.GetString("channel-search"),
			Type:   v.GetString("channel-type"),
		}, mode, v.GetStringSlice("channel-ids"))
		if err != nil {
			return fmt.Errorf("channels: %w", err)
		}
	}

	fmt.Fprintln(out, sess.Summary().String())

	// =========================================================================
	// STEP 4: EXPORT
	// =========================================================================

	writer, err := csvwriter.NewWriter(cfg)
	if err != nil {
		return err
	}

	var written []string
	sink := export.SinkFunc(func(res *export.Result) ([]string, error) {
		paths, err := writer.Write(res)
		written = paths
		return paths, err
	})

	if _, err := sess.Export(sink); err != nil {
		if errors.Is(err, types.ErrNothingSelected) {
			return fmt.Errorf("%w: no contacts or channels selected for export", err)
		}
		return err
	}

	for _, p := range written {
		fmt.Fprintf(out, "  ✓ saved %s\n", p)
	}
	return nil
}

// selector is the part of a session pane the headless selection uses.
type selector interface {
	SetFilter(view.Filter) error
	SelectAllVisible() selection.BulkResult
	SelectKeys([]types.Key) selection.BulkResult
}

// applySelection filters a pane and selects its visible records (mode
// "visible") plus any explicit ids.
func applySelection(p selector, f view.Filter, mode string, ids []string) error {
	if err := p.SetFilter(f); err != nil {
		return err
	}
	if mode == selectVisible {
		p.SelectAllVisible()
	}
	if len(ids) > 0 {
		keys, err := types.KeysOf(ids)
		if err != nil {
			return err
		}
		p.SelectKeys(keys)
	}
	return nil
}

// printResults prints one line per converted file.
func printResults(out io.Writer, in inputs) {
	if r := in.Contacts; r != nil {
		fmt.Fprintf(out, "  ✓ contacts: %s format, %s records (%s dropped) in %s\n",
			r.Dialect, humanize.Comma(int64(r.Stats.RowsKept)),
			humanize.Comma(int64(r.Stats.RowsDropped)), r.Stats.Duration.Round(time.Millisecond))
	}
	if r := in.Channels; r != nil {
		fmt.Fprintf(out, "  ✓ channels: %s format, %s records in %s\n",
			r.Dialect, humanize.Comma(int64(r.Stats.RowsKept)), r.Stats.Duration.Round(time.Millisecond))
	}
}
