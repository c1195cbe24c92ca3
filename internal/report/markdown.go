package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shipdocs/internal/schema"
	"shipdocs/internal/split"
)

// Markdown renders a summary as the quality report document committed
// alongside the dataset.
func Markdown(s Summary, generated time.Time) string {
	var b strings.Builder

	b.WriteString("# Data Quality Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.Format("2006-01-02 15:04:05"))

	b.WriteString("## Overall Summary\n\n")
	fmt.Fprintf(&b, "- **Total Records**: %d\n", s.Total)
	fmt.Fprintf(&b, "- **Valid**: %d\n", s.Valid)
	fmt.Fprintf(&b, "- **Invalid**: %d\n\n", s.Invalid)

	b.WriteString("## Document Types\n\n")
	b.WriteString("| Type | Count | Share |\n")
	b.WriteString("|------|-------|-------|\n")
	for _, dt := range s.Types() {
		stats := s.PerType[dt]
		share := 0.0
		if s.Total > 0 {
			share = 100 * float64(stats.Count) / float64(s.Total)
		}
		fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", dt, stats.Count, share)
	}
	b.WriteString("\n")

	for _, dt := range s.Types() {
		stats := s.PerType[dt]
		fmt.Fprintf(&b, "### %s\n\n", dt)

		if len(stats.FieldCompletion) > 0 {
			b.WriteString("| Field | Completion |\n")
			b.WriteString("|-------|------------|\n")
			fields := make([]string, 0, len(stats.FieldCompletion))
			for f := range stats.FieldCompletion {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				fmt.Fprintf(&b, "| %s | %.1f%% |\n", f, 100*stats.FieldCompletion[f])
			}
			b.WriteString("\n")
		}

		for _, d := range stats.Duplicates {
			fmt.Fprintf(&b, "- ⚠️ duplicate `%s` = %q shared by %s\n",
				d.Field, d.Value, strings.Join(d.DocumentIDs, ", "))
		}
		if len(stats.Duplicates) > 0 {
			b.WriteString("\n")
		}
	}

	if s.PerPartition != nil {
		b.WriteString("## Partitions\n\n")
		b.WriteString("| Partition | Count | Share |\n")
		b.WriteString("|-----------|-------|-------|\n")
		assigned := 0
		for _, p := range split.Partitions {
			assigned += s.PerPartition[p].Count
		}
		for _, p := range split.Partitions {
			stats := s.PerPartition[p]
			share := 0.0
			if assigned > 0 {
				share = 100 * float64(stats.Count) / float64(assigned)
			}
			fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", p, stats.Count, share)
		}
		b.WriteString("\n")

		for _, p := range split.Partitions {
			stats := s.PerPartition[p]
			if stats.Count == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", p)
			b.WriteString("| Type | Count |\n")
			b.WriteString("|------|-------|\n")
			types := make([]string, 0, len(stats.PerType))
			for dt := range stats.PerType {
				types = append(types, string(dt))
			}
			sort.Strings(types)
			for _, dt := range types {
				fmt.Fprintf(&b, "| %s | %d |\n", dt, stats.PerType[schema.DocumentType(dt)])
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
