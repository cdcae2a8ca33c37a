// =============================================================================
// OpenGD77 CSV Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter, including:
//   - Directory management
//   - All-or-nothing writes of a group of output files
//   - Temporary file naming
//
// WRITE STRATEGY:
//   1. Every file is written to a uuid-named temporary file next to its
//      target, synced and closed
//   2. Only when every temporary file is complete are they renamed over the
//      targets
//   3. On any failure in step 1 every temporary file is removed and no
//      target is touched
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string

	// FileMode is the permission of created files.
	// Default: 0644
	FileMode os.FileMode
}

// NewFileManager creates a new FileManager for the output directory.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		FileMode:  0o644,
	}
}

// FileContent is one file to be written, relative to OutputDir.
type FileContent struct {
	Name string
	Data []byte
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFilesAtomic writes every file or none of them and returns the paths
// written, in the order given.
//
// A failure while renaming (after every temporary file was written) can leave
// earlier targets replaced; the remaining temporary files are still removed.
func (fm *FileManager) WriteFilesAtomic(files []FileContent) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := fm.EnsureDirectories(); err != nil {
		return nil, err
	}

	targets := make([]string, len(files))
	temps := make([]string, 0, len(files))

	cleanup := func(from int) {
		for _, tmp := range temps[from:] {
			_ = os.Remove(tmp)
		}
	}

	// Phase 1: temporary files.
	for i, f := range files {
		targets[i] = filepath.Join(fm.OutputDir, f.Name)

		tmp := TempName(targets[i])
		if err := fm.writeSynced(tmp, f.Data); err != nil {
			_ = os.Remove(tmp)
			cleanup(0)
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		temps = append(temps, tmp)
	}

	// Phase 2: rename over the targets.
	for i, tmp := range temps {
		if err := os.Rename(tmp, targets[i]); err != nil {
			cleanup(i)
			return nil, fmt.Errorf("failed to replace %s: %w", files[i].Name, err)
		}
	}

	return targets, nil
}

// writeSynced writes data to path and flushes it to disk before closing.
func (fm *FileManager) writeSynced(path string, data []byte) (err error) {
	mode := fm.FileMode
	if mode == 0 {
		mode = 0o644
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if _, err := file.Write(data); err != nil {
		return err
	}
	return file.Sync()
}

// =============================================================================
// FILE NAMING
// =============================================================================

// TempName returns a unique hidden temporary name next to target.
//
// EXAMPLE:
//   target: "out/Contacts.csv"
//   output: "out/.Contacts.csv.a1b2c3d4-e5f6-7890-abcd-ef1234567890.tmp"
func TempName(target string) string {
	dir, base := filepath.Split(target)
	return filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
}

// IsTempName reports whether name was produced by TempName.
func IsTempName(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") && strings.HasSuffix(base, ".tmp")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
