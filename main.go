// =============================================================================
// OpenGD77 CSV Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   gd77conv convert   - Convert exports and write the OpenGD77 CSV files
//   gd77conv preview   - Show detection and conversion results only
//   gd77conv edit      - Pick records in a terminal editor
//   gd77conv version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : conversion, selection and export logic
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/opengd77-converter/cmd"
)

func main() {
	cmd.Execute()
}
