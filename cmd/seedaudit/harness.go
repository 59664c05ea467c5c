package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/seedaudit/internal/audit"
	"github.com/verte-zerg/seedaudit/internal/collector"
	"github.com/verte-zerg/seedaudit/internal/config"
	"github.com/verte-zerg/seedaudit/internal/logger"
	"github.com/verte-zerg/seedaudit/internal/model"
	"github.com/verte-zerg/seedaudit/internal/progressui"
	"github.com/verte-zerg/seedaudit/internal/stats"
	"github.com/verte-zerg/seedaudit/internal/store"
	"github.com/verte-zerg/seedaudit/internal/ui"
	"github.com/verte-zerg/seedaudit/internal/vault"
)

const defaultTimeoutSeconds = int(collector.DefaultTimeout / time.Second)

var (
	harnessCmd          string
	harnessRuns         int
	harnessOut          string
	harnessSaveSeeds    bool
	harnessEncrypt      bool
	harnessVocabSize    int
	harnessWordlist     string
	harnessPhraseLength int
	harnessTimeout      int
	harnessWorkers      int
	harnessProgress     bool
	harnessNoHistory    bool
)

func newHarnessCmd(capability vault.Capability) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harness",
		Short: "Run a generator repeatedly and analyze its output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHarnessCmd(cmd, capability)
		},
	}
	cmd.Flags().StringVar(&harnessCmd, "cmd", "", "command that prints ONE mnemonic to stdout")
	cmd.Flags().IntVar(&harnessRuns, "runs", collector.DefaultRuns, "number of invocations")
	cmd.Flags().StringVar(&harnessOut, "out", "", "result file (.json, or .yaml/.yml); holds no plaintext mnemonics by default")
	cmd.Flags().BoolVar(&harnessSaveSeeds, "save-seeds", false, "store the mnemonics in the result file (requires --encrypt)")
	cmd.Flags().BoolVar(&harnessEncrypt, "encrypt", false, "encrypt stored seeds with a passphrase")
	cmd.Flags().IntVar(&harnessVocabSize, "wordlist-size", stats.DefaultVocabularySize, "vocabulary size (0 with --wordlist uses the list length)")
	cmd.Flags().StringVar(&harnessWordlist, "wordlist", "", "reference word list for out-of-vocabulary counts")
	cmd.Flags().IntVar(&harnessPhraseLength, "phrase-length", collector.DefaultPhraseLength, "words per mnemonic")
	cmd.Flags().IntVar(&harnessTimeout, "timeout", defaultTimeoutSeconds, "per-invocation timeout in seconds")
	cmd.Flags().IntVar(&harnessWorkers, "workers", 1, "concurrent invocations")
	cmd.Flags().BoolVar(&harnessProgress, "progress", false, "draw a progress bar while collecting")
	cmd.Flags().BoolVar(&harnessNoHistory, "no-history", false, "do not record the run in the local history")
	return cmd
}

func runHarnessCmd(cmd *cobra.Command, capability vault.Capability) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(configPath(env))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	merged := env.Harness(fileCfg.Harness)
	applyStringConfig(cmd, "cmd", &harnessCmd, merged.Command)
	applyIntConfig(cmd, "runs", &harnessRuns, merged.Runs)
	applyStringConfig(cmd, "out", &harnessOut, merged.Out)
	applyBoolConfig(cmd, "save-seeds", &harnessSaveSeeds, merged.SaveSeeds)
	applyBoolConfig(cmd, "encrypt", &harnessEncrypt, merged.Encrypt)
	applyIntConfig(cmd, "wordlist-size", &harnessVocabSize, merged.VocabularySize)
	applyStringConfig(cmd, "wordlist", &harnessWordlist, merged.Wordlist)
	applyIntConfig(cmd, "phrase-length", &harnessPhraseLength, merged.PhraseLength)
	applyIntConfig(cmd, "timeout", &harnessTimeout, merged.TimeoutSeconds)
	applyIntConfig(cmd, "workers", &harnessWorkers, merged.Workers)
	applyBoolConfig(cmd, "progress", &harnessProgress, merged.Progress)
	applyBoolConfig(cmd, "no-history", &harnessNoHistory, merged.NoHistory)

	cfg := model.HarnessConfig{
		Command:        harnessCmd,
		Runs:           harnessRuns,
		OutputPath:     harnessOut,
		SaveSeeds:      harnessSaveSeeds,
		Encrypt:        harnessEncrypt,
		VocabularySize: harnessVocabSize,
		Timeout:        time.Duration(harnessTimeout) * time.Second,
		PhraseLength:   harnessPhraseLength,
		Workers:        harnessWorkers,
		WordlistPath:   harnessWordlist,
		Progress:       harnessProgress && ui.IsTerminal(os.Stderr),
		NoHistory:      harnessNoHistory,
	}
	if err := audit.Validate(cfg, capability); err != nil {
		return err
	}

	closeLog, err := setupLogging(env, cfg.Progress)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.L()

	deps := audit.Deps{
		Runner:     collector.NewShellRunner(),
		Logger:     log,
		Capability: capability,
		Printer:    ui.NewPrinter(cmd.OutOrStdout()),
		BarWidth:   ui.BarWidthFor(ui.TerminalWidth()),
		Progress: func(ctx context.Context, runs int, work progressui.Work) error {
			return progressui.Run(ctx, os.Stderr, runs, work)
		},
	}
	if cfg.SaveSeeds {
		deps.Passphrase = vault.NewTerminalPrompt()
	}
	if !cfg.NoHistory {
		st, err := store.Open(dbPath(env))
		if err != nil {
			log.Warn("run history unavailable", "error", err)
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			deps.History = st
		}
	}

	outcome, err := audit.Run(cmd.Context(), cfg, deps)
	if err != nil {
		return err
	}
	if outcome.RunID > 0 {
		log.Debug("run recorded", "id", outcome.RunID)
	}
	return nil
}
