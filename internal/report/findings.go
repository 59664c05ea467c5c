package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/seedaudit/internal/model"
)

// RenderFindings prints scanner findings one per line.
func RenderFindings(w io.Writer, findings []model.Finding) error {
	for _, f := range findings {
		if _, err := fmt.Fprintf(w, "%s:%d -> %s\n", f.File, f.Line, f.Message); err != nil {
			return err
		}
	}
	return nil
}

// WriteFindingsReport writes the plaintext scan report to path.
func WriteFindingsReport(path string, findings []model.Finding) error {
	f, err := os.Create(path)
	if err != nil {
		return &model.OpError{Op: "report.findings", Kind: model.KindExecution, Path: path, Err: err}
	}
	w := bufio.NewWriter(f)
	werr := writeFindingsReport(w, findings)
	if werr == nil {
		werr = w.Flush()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return &model.OpError{Op: "report.findings", Kind: model.KindExecution, Path: path, Err: werr}
	}
	return nil
}

func writeFindingsReport(w io.Writer, findings []model.Finding) error {
	if _, err := fmt.Fprint(w, "SeedAudit Report\n================\n\n"); err != nil {
		return err
	}
	if len(findings) == 0 {
		_, err := fmt.Fprintln(w, "No insecure RNG usage detected.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Findings:"); err != nil {
		return err
	}
	for _, f := range findings {
		if _, err := fmt.Fprintf(w, "- %s:%d :: %s\n", f.File, f.Line, f.Message); err != nil {
			return err
		}
	}
	return nil
}
