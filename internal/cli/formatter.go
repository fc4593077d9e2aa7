package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/topsize/internal/dirstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// NameWidth is the column width names are padded to in text output.
	NameWidth = 65
)

// FormatRow renders an entry as a padded name followed by whole megabytes.
func FormatRow(entry dirstat.Entry) string {
	return fmt.Sprintf("%-*s = %d Mb", NameWidth, entry.Name, dirstat.ToMB(entry.Size))
}

// PrintHeader announces a text-mode scan before it starts.
func PrintHeader(opt dirstat.Options, writer io.Writer) error {
	kind := "files"
	if opt.FolderMode {
		kind = "folders"
	}

	_, err := fmt.Fprintf(writer, "Will look for the top %d %s from %s using %d threads\n\n",
		opt.Track, kind, opt.Path, max(opt.Threads, 1))

	return err
}

// PrintText outputs one row per tracked slot, placeholders included.
func PrintText(stats *dirstat.Stats, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, "\nResults:"); err != nil {
		return err
	}

	for _, entry := range stats.Entries {
		if _, err := fmt.Fprintln(writer, FormatRow(entry)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(writer, "\n--- Total process took: %v\n", stats.Elapsed)

	return err
}

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *dirstat.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs statistics in human-readable table format.
// Unfilled slots are left out.
func PrintTable(stats *dirstat.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	if stats.FolderMode {
		fmt.Fprintln(w, "\nTop folders:\t\t")
	} else {
		fmt.Fprintln(w, "\nTop files:\t\t")
	}

	for i, e := range stats.Entries {
		if e.IsPlaceholder() {
			continue
		}

		pct := 0.0
		if stats.TotalBytes > 0 {
			pct = 100.0 * float64(e.Size) / float64(stats.TotalBytes)
		}

		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n", i+1, e.Name, humanize.IBytes(e.Size), pct)
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total files:\t%d\n", stats.FileCount)
	fmt.Fprintf(w, "Total folders:\t%d\n", stats.DirCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(stats.TotalBytes), stats.TotalBytes)

	if len(stats.Errors) > 0 {
		fmt.Fprintf(w, "Unreadable:\t%d\n", len(stats.Errors))
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
