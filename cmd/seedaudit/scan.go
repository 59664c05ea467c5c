package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/seedaudit/internal/report"
	"github.com/verte-zerg/seedaudit/internal/scanner"
	"github.com/verte-zerg/seedaudit/internal/ui"
)

var scanReport string

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan PATH",
		Short: "Scan Go sources for insecure RNG usage",
		Args:  cobra.ExactArgs(1),
		RunE:  runScanCmd,
	}
	cmd.Flags().StringVar(&scanReport, "report", "", "also write a plaintext report to this file")
	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	findings, err := scanner.Scan(args[0])
	if err != nil {
		return err
	}
	printer := ui.NewPrinter(cmd.OutOrStdout())
	if len(findings) == 0 {
		printer.Successf("No insecure RNG usage found.")
	} else {
		printer.Warnf("Possible insecure RNG usage found:")
		if err := report.RenderFindings(printer.Writer(), findings); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if scanReport != "" {
		if err := report.WriteFindingsReport(scanReport, findings); err != nil {
			return err
		}
		printer.Successf("Report written to %s", scanReport)
	}
	return nil
}
