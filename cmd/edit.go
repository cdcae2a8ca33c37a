package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/opengd77-converter/internal/csvwriter"
	"github.com/ginjaninja78/opengd77-converter/internal/logging"
	"github.com/ginjaninja78/opengd77-converter/internal/session"
	"github.com/ginjaninja78/opengd77-converter/internal/tui"
)

// editCmd converts the inputs and opens the terminal selection editor.
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Convert exports and pick records in a terminal editor",
	Long: `The edit command converts the input files and opens a terminal editor with
one tab per loaded file. Filter by name, ID or type, toggle records, then press
ctrl+s to write the OpenGD77 CSV files.

While the editor is open log output goes to --log-file, if given.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd.OutOrStdout(), v.GetString("log-file"))
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	addInputFlags(editCmd)
	editCmd.Flags().String("log-file", "", "Write log output to this file while the editor is open")
}

func runEdit(out io.Writer, logFile string) error {
	in, err := convertInputs(out)
	if err != nil {
		return err
	}

	writer, err := csvwriter.NewWriter(cfg)
	if err != nil {
		return err
	}

	// The editor owns the terminal; logs must not be written to it.
	var w io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	editLogger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)}))

	sess := session.New(in.contactRecords(), in.channelRecords(), logging.NewObserver(editLogger))
	editLogger.Info("editor started", "session_id", sess.ID)

	final, err := tea.NewProgram(tui.New(sess, writer), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Exported() != nil {
		contacts, channels := m.Exported().Counts()
		fmt.Fprintf(out, "Exported %d contacts and %d channels to %s\n", contacts, channels, cfg.OutputDir)
	} else {
		fmt.Fprintln(out, "Nothing exported.")
	}
	return nil
}
