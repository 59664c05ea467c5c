package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/seedaudit/internal/config"
	"github.com/verte-zerg/seedaudit/internal/model"
	"github.com/verte-zerg/seedaudit/internal/report"
	"github.com/verte-zerg/seedaudit/internal/vault"
)

var decryptOut string

func newDecryptCmd(capability vault.Capability) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt RESULT_FILE",
		Short: "Recover the encrypted seeds of a result file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecryptCmd(cmd, args[0], capability)
		},
	}
	cmd.Flags().StringVar(&decryptOut, "out", "", "write phrases to this file instead of stdout")
	return cmd
}

func runDecryptCmd(cmd *cobra.Command, path string, capability vault.Capability) error {
	if !capability.AEAD {
		return &model.OpError{Op: "decrypt", Kind: model.KindCryptoUnavailable, Err: capability.Err}
	}
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(env, false)
	if err != nil {
		return err
	}
	defer closeLog()

	blob, err := report.ReadEncryptedSeeds(path)
	if err != nil {
		return err
	}
	return vault.WithPassphrase(vault.NewTerminalPrompt(), "Passphrase (not echoed): ", func(passphrase []byte) error {
		plain, err := vault.Decrypt(blob, passphrase)
		if err != nil {
			return err
		}
		out := make([]byte, 0, len(plain)+1)
		out = append(out, plain...)
		clear(plain)
		defer clear(out)
		if len(out) > 0 && out[len(out)-1] != '\n' {
			out = append(out, '\n')
		}
		if decryptOut == "" {
			_, err := cmd.OutOrStdout().Write(out)
			return err
		}
		return writePrivateFile(decryptOut, out)
	})
}

// writePrivateFile writes data readable only by the owner.
func writePrivateFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
