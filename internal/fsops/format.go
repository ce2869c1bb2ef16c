package fsops

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"
)

// Timestamps are rendered in one fixed, unambiguous format.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatEntries renders a directory listing as an aligned table. Sizes
// are plain byte counts; directories and special entries show "-".
func FormatEntries(entries []Entry) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSIZE (BYTES)\tMODIFIED")
	for _, e := range entries {
		size := "-"
		if e.Kind == EntryFile {
			size = fmt.Sprintf("%d", e.Size)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Kind, size, formatTime(e.Modified))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// FormatRecord renders a metadata record as labeled lines.
func FormatRecord(rec *Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\n", rec.Path)
	fmt.Fprintf(&b, "Type: %s\n", recordType(rec.Kind))
	fmt.Fprintf(&b, "Size: %d bytes\n", rec.Size)
	fmt.Fprintf(&b, "Created: %s\n", formatTime(rec.Created))
	fmt.Fprintf(&b, "Modified: %s\n", formatTime(rec.Modified))
	fmt.Fprintf(&b, "Permissions: %s", rec.Perm)
	if rec.Kind == EntryDirectory {
		fmt.Fprintf(&b, "\nChildren: %d", rec.Children)
	}
	return b.String()
}

func recordType(k EntryKind) string {
	switch k {
	case EntryFile:
		return "File"
	case EntryDirectory:
		return "Directory"
	default:
		return "Other"
	}
}
