package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/seedaudit/internal/config"
	"github.com/verte-zerg/seedaudit/internal/ui"
	"github.com/verte-zerg/seedaudit/internal/wordlist"
)

var (
	wordlistURL   string
	wordlistName  string
	wordlistForce bool
)

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Download a reference mnemonic word list",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistURL, "url", wordlist.DefaultURL, "word list URL")
	cmd.Flags().StringVar(&wordlistName, "name", "english", "file name (without .txt) in the word list directory")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite an existing list")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(env, false)
	if err != nil {
		return err
	}
	defer closeLog()

	dest := config.DefaultWordListPath(wordlistName)
	printer := ui.NewPrinter(cmd.ErrOrStderr())
	printer.Infof("Fetching %s", wordlistURL)
	n, err := wordlist.Download(cmd.Context(), wordlistURL, dest, wordlistForce)
	if err != nil {
		if errors.Is(err, wordlist.ErrExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return fmt.Errorf("failed to download word list: %w", err)
	}
	printer.Successf("Wrote %d words to %s", n, dest)
	return nil
}
