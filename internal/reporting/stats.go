package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteStats renders the plain-text statistics summary, in the layout the
// benchmark's result files have always used.
func WriteStats(w io.Writer, snap Snapshot) error {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	title := "Evaluation results"
	if snap.Name != "" {
		title = fmt.Sprintf("Evaluation results for %s", snap.Name)
	}
	p.Fprintf(&b, "%s:\n", title)
	p.Fprintf(&b, "Total tasks scored: %d\n", snap.Count)
	if snap.ExcludedCount > 0 {
		p.Fprintf(&b, "Excluded as data errors: %d\n", snap.ExcludedCount)
	}
	p.Fprintf(&b, "Total score: %.2f\n", snap.TotalScoreSum)
	p.Fprintf(&b, "Average score: %.4f\n", snap.MeanTotalScore)
	if snap.MeanCI != nil {
		p.Fprintf(&b, "Mean %.0f%% CI: [%.4f, %.4f]\n",
			snap.MeanCI.ConfidenceLevel*100, snap.MeanCI.Lower, snap.MeanCI.Upper)
	}
	p.Fprintf(&b, "Min/Max: %.4f / %.4f\n", snap.MinScore, snap.MaxScore)
	p.Fprintf(&b, "Std dev: %.4f\n", snap.StdDev)

	b.WriteString("\nScore Distribution:\n")
	labelWidth := 0
	for _, row := range snap.Distribution {
		if w := runewidth.StringWidth(row.Bucket); w > labelWidth {
			labelWidth = w
		}
	}
	for _, row := range snap.Distribution {
		p.Fprintf(&b, "- %s: %d tasks (%.1f%%)\n",
			runewidth.FillRight(row.Bucket, labelWidth), row.Count, row.Percent)
	}

	if len(snap.DataErrors) > 0 {
		b.WriteString("\nData Errors:\n")
		for _, de := range snap.DataErrors {
			fmt.Fprintf(&b, "- %s: %s\n", de.TaskID, de.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
