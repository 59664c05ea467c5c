package report

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/seedaudit/internal/model"
)

// RenderHistory prints recorded runs as a table, oldest first.
func RenderHistory(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No audit runs recorded yet.")
		return err
	}
	headers := []string{"ID", "Started", "Collected", "Dup rate", "Entropy", "Ideal", "Command"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		collected := fmt.Sprintf("%d/%d", r.RunsCollected, r.RunsRequested)
		if r.Aborted {
			collected += "*"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			collected,
			fmt.Sprintf("%.4f%%", r.DuplicateRate*100),
			fmt.Sprintf("%.2f", r.EstimatedEntropyBits),
			fmt.Sprintf("%.2f", r.IdealEntropyBits),
			r.Command,
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
