package resources

import "fmt"

// SummaryLines renders the per-kind counts and the orphan total as plain
// lines, ready for boxed display.
func (r *Result) SummaryLines() []string {
	lines := []string{"Resource aggregation complete"}
	for _, kind := range Kinds {
		lines = append(lines, fmt.Sprintf("%-11s %4d records, %d orphaned", string(kind)+":", len(r.Records[kind]), len(r.Orphans[kind])))
	}
	lines = append(lines, fmt.Sprintf("%-11s %4d", "orphans:", r.OrphanTotal()))
	return lines
}
