package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/apex-rankmap/internal/pipeline"
	"github.com/pfrederiksen/apex-rankmap/internal/rotation"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *pipeline.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *pipeline.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *pipeline.Result, verbose bool) error {
	rot := result.Rotation
	if rot == nil {
		fmt.Fprintln(w, "No rotation found.")
		return nil
	}

	writeEntry(w, "Current", rot.Current)
	if rot.HasNext() {
		writeEntry(w, "Next", *rot.Next)
	}

	if result.ImageURL != "" {
		fmt.Fprintf(w, "\nImage: %s\n", result.ImageURL)
	} else {
		fmt.Fprintln(w, "\nImage: none")
	}
	fmt.Fprintf(w, "Sent via %s\n", result.Notifier)

	if verbose {
		fmt.Fprintf(w, "  Source: %s page\n", rot.Source)
		fmt.Fprintf(w, "  Sent at: %s\n", result.SentAt.UTC().Format(time.RFC3339))
	}

	return nil
}

func writeEntry(w io.Writer, label string, e rotation.Entry) {
	fmt.Fprintf(w, "%s: %s\n", label, e.Name)
	if e.Detail != "" {
		fmt.Fprintf(w, "  %s\n", e.Detail)
	}
}
