package outwriter

import (
	"fmt"
	"io"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// PrintCacheStatus outputs cache store status, dispatching on the configured format.
func PrintCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCacheStatusText(w, status)
	}, "status")
}

// writeCacheStatusText writes the plain key-value status report.
func writeCacheStatusText(w io.Writer, status schema.CacheStatus) error {
	if _, err := fmt.Fprintf(w, "Backend:   %s\n", status.Backend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Connected: %t\n", status.Connected); err != nil {
		return err
	}
	if !status.Connected {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Entries:   %d\n", status.Entries); err != nil {
		return err
	}
	if status.Entries == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Size:      %d bytes\n", status.SizeBytes); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Oldest:    %s\n", status.OldestItem.Format(contract.DateTimeFormat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Newest:    %s\n", status.NewestItem.Format(contract.DateTimeFormat))
	return err
}
