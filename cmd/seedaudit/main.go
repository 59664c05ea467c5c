// Package main provides the CLI entrypoint for seedaudit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/seedaudit/internal/config"
	"github.com/verte-zerg/seedaudit/internal/logger"
	"github.com/verte-zerg/seedaudit/internal/vault"
)

var (
	rootDebug      bool
	rootLogFile    string
	rootConfigPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd := newRootCmd(vault.Probe())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(capability vault.Capability) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "seedaudit",
		Short:         "Audit the randomness of mnemonic phrase generators",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootLogFile, "log-file", "", "also write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "config file path (default: XDG config dir)")

	rootCmd.AddCommand(newHarnessCmd(capability))
	rootCmd.AddCommand(newDecryptCmd(capability))
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newWordlistCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// setupLogging installs the process logger. Quiet keeps stderr for errors
// only, used while a progress view owns the terminal.
func setupLogging(env config.EnvConfig, quiet bool) (func(), error) {
	path := rootLogFile
	if path == "" {
		path = env.LogFile
	}
	cleanup, err := logger.Setup(logger.Config{
		Stderr:   os.Stderr,
		FilePath: path,
		Debug:    rootDebug,
		Quiet:    quiet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return func() {
		if cerr := cleanup(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func configPath(env config.EnvConfig) string {
	if rootConfigPath != "" {
		return rootConfigPath
	}
	if env.ConfigPath != "" {
		return env.ConfigPath
	}
	return config.DefaultConfigPath()
}

func dbPath(env config.EnvConfig) string {
	if env.DBPath != "" {
		return env.DBPath
	}
	return config.DefaultDBPath()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
