package notifier

import (
	"fmt"
	"strings"

	"GrowthWatch/internal/model"
)

// FormatSummary formats the run result as plain text, one line per country.
func FormatSummary(ds *model.Dataset, projections []model.Projection, fitWindow int) string {
	var b strings.Builder

	b.WriteString("GrowthWatch")
	if n := ds.Axis.Len(); n > 0 {
		b.WriteString(fmt.Sprintf(" | %s .. %s", ds.Axis.Labels[0], ds.Axis.Labels[n-1]))
	}
	b.WriteString(fmt.Sprintf(" (last %d days, fit %d)\n", ds.Axis.Len(), fitWindow))

	for _, p := range projections {
		last, _ := ds.Last(p.Country)
		if p.HasFit() {
			b.WriteString(fmt.Sprintf("%s last=%d\n", p.Fit.Label(), last))
			continue
		}
		b.WriteString(fmt.Sprintf("%s last=%d no fit: %v\n", p.Country, last, p.Err))
	}
	return b.String()
}
