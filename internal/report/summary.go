package report

import (
	"fmt"
	"io"

	"github.com/verte-zerg/seedaudit/internal/model"
)

// SummaryTopN is how many global words the summary lists.
const SummaryTopN = 20

// RenderSummary prints the condensed human-readable summary.
func RenderSummary(w io.Writer, m model.Metrics) error {
	lines := []string{
		"",
		"=== SUMMARY ===",
		fmt.Sprintf("Samples collected: %d", m.TotalSamples),
		fmt.Sprintf("Unique: %d  | Duplicates: %d  | Duplicate rate: %.6f%%", m.UniqueMnemonics, m.Duplicates, m.DuplicateRate*100),
		fmt.Sprintf("Estimated total entropy: %.2f bits (ideal ~ %.2f bits)", m.EstimatedTotalEntropyBits, m.IdealTotalEntropyBits),
	}
	if m.OutOfVocabulary != nil {
		lines = append(lines, fmt.Sprintf("Out-of-vocabulary words: %d", *m.OutOfVocabulary))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if err := renderPositions(w, m); err != nil {
		return err
	}
	return renderTopWords(w, m)
}

func renderPositions(w io.Writer, m model.Metrics) error {
	if _, err := fmt.Fprintln(w, "\nPer position:"); err != nil {
		return err
	}
	headers := []string{"Pos", "Entropy", "Ideal", "Chi2", "Distinct"}
	rows := make([][]string, 0, len(m.PerPosition))
	for _, p := range m.PerPosition {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Position),
			fmt.Sprintf("%.3f", p.EntropyBits),
			fmt.Sprintf("%.3f", p.IdealBits),
			fmt.Sprintf("%.1f", p.Chi2Approx),
			fmt.Sprintf("%d", p.DistinctWords),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	return nil
}

func renderTopWords(w io.Writer, m model.Metrics) error {
	if _, err := fmt.Fprintln(w, "\nTop global words (possible bias):"); err != nil {
		return err
	}
	top := m.TopGlobal
	if len(top) > SummaryTopN {
		top = top[:SummaryTopN]
	}
	totalWords := m.TotalWords()
	rows := make([][]string, 0, len(top))
	for _, wc := range top {
		pct := 0.0
		if totalWords > 0 {
			pct = float64(wc.Count) / float64(totalWords) * 100
		}
		rows = append(rows, []string{
			wc.Word,
			"->",
			fmt.Sprintf("%d", wc.Count),
			fmt.Sprintf("(%.6f%% of all words)", pct),
		})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	return nil
}
