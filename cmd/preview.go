package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/opengd77-converter/internal/converter"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

// previewCmd converts the inputs and reports what an export would contain
// without writing anything.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what the input files convert to without writing output",
	Long: `The preview command runs format detection and conversion on the input
files and prints, per file, the detected format, the encoding it was read with,
row counts and the rows that were dropped. Nothing is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addInputFlags(previewCmd)
}

func runPreview(out io.Writer) error {
	in, err := convertInputs(out)
	if err != nil {
		return err
	}

	if r := in.Contacts; r != nil {
		printStats(out, "Contacts", r.Source, r.Dialect, r.Encoding, r.Stats, r.Dropped)
		if r.Stats.Excess > 0 {
			fmt.Fprintf(out, "  ! %s contacts over the OpenGD77 limit of %s; only %s can be selected\n",
				humanize.Comma(int64(r.Stats.Excess)),
				humanize.Comma(types.MaxContacts),
				humanize.Comma(types.MaxContacts))
		}
	}
	if r := in.Channels; r != nil {
		printStats(out, "Channels", r.Source, r.Dialect, r.Encoding, r.Stats, r.Dropped)
	}
	return nil
}

func printStats(out io.Writer, title, path, dialect, encoding string, st converter.Stats, dropped []converter.Drop) {
	size := "unknown size"
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}

	fmt.Fprintf(out, "%s: %s (%s)\n", title, filepath.Base(path), size)
	fmt.Fprintf(out, "  Format:     %s\n", dialect)
	fmt.Fprintf(out, "  Encoding:   %s\n", encoding)
	fmt.Fprintf(out, "  Rows read:  %s\n", humanize.Comma(int64(st.RowsRead)))
	fmt.Fprintf(out, "  Converted:  %s\n", humanize.Comma(int64(st.RowsKept)))
	fmt.Fprintf(out, "  Dropped:    %s (%s duplicates)\n",
		humanize.Comma(int64(st.RowsDropped)), humanize.Comma(int64(st.Duplicates)))
	fmt.Fprintf(out, "  Time:       %s\n", st.Duration.Round(time.Millisecond))

	if verbose {
		for _, d := range dropped {
			fmt.Fprintf(out, "    row %d: %s\n", d.Line, d.Reason)
		}
	}
}
