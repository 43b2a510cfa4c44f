package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/sems/internal/scan"
)

// RenderSummary draws a boxed overview of a scan. title is usually the run ID.
func RenderSummary(title string, res *scan.Result, t Theme) string {
	st := newStyles(t)
	s := res.Summary()

	row := func(label, value string) string {
		return st.label.Render(fmt.Sprintf("%-14s", label)) + st.value.Render(value)
	}

	var b strings.Builder
	b.WriteString(st.title.Render(title) + "\n\n")
	b.WriteString(row("method", res.Method) + "\n")
	b.WriteString(row("individuals", fmt.Sprint(res.Individuals)) + "\n")
	b.WriteString(row("markers", fmt.Sprintf("%d (offset %d)", res.Markers, res.Offset)) + "\n")
	b.WriteString(row("traits", fmt.Sprint(res.Traits)) + "\n")
	b.WriteString(row("fits", fmt.Sprint(s.Pairs)) + "\n")

	failed := fmt.Sprint(s.Failed)
	if s.Failed > 0 {
		failed = st.failed.Render(failed)
	}
	b.WriteString(st.label.Render(fmt.Sprintf("%-14s", "failed")) + failed + "\n")

	b.WriteString(row("mean |a|", formatValue(s.MeanAbsSlope)) + "\n")
	if s.TopMarker != "" {
		b.WriteString(row("top marker", fmt.Sprintf("%s / %s (|a| %s)", s.TopMarker, s.TopTrait, formatValue(s.MaxAbsSlope))) + "\n")
	}
	b.WriteString(row("mean R²", formatValue(s.MeanR2)) + "\n")
	b.WriteString(row("elapsed", res.Elapsed.String()))

	return st.panel.Render(b.String())
}
