package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Ownership share label constants.
const (
	DominantValue = "Dominant" // Majority owner of the lines
	MajorValue    = "Major"    // Substantial share
	RegularValue  = "Regular"  // Ordinary contributor
	MinorValue    = "Minor"    // Marginal share
)

// Color variables for console output.
var (
	DominantColor = color.New(color.FgGreen, color.Bold)
	MajorColor    = color.New(color.FgCyan, color.Bold)
	RegularColor  = color.New(color.FgYellow)
	MinorColor    = color.New(color.FgWhite)
)

// GetPlainLabel returns a plain text label describing a contributor's
// ownership share as a percentage of total attributed lines. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(share float64) string {
	switch {
	case share >= 50:
		return DominantValue
	case share >= 20:
		return MajorValue
	case share >= 5:
		return RegularValue
	default:
		return MinorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(share float64) string {
	text := GetPlainLabel(share)

	switch text {
	case DominantValue:
		return DominantColor.Sprint(text)
	case MajorValue:
		return MajorColor.Sprint(text)
	case RegularValue:
		return RegularColor.Sprint(text)
	default: // "Minor"
		return MinorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based
// on the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitattrib_cache.db"
	}
	return filepath.Join(homeDir, ".gitattrib_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for both the "..." prefix and at
// least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
