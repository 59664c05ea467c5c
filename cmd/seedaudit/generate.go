package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/seedaudit/internal/collector"
	"github.com/verte-zerg/seedaudit/internal/config"
	"github.com/verte-zerg/seedaudit/internal/generator"
	"github.com/verte-zerg/seedaudit/internal/wordlist"
)

var (
	generateWordlist string
	generateWords    int
	generateHex      bool
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print one mnemonic from a secure source",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().StringVar(&generateWordlist, "wordlist", "", "word list to draw from (default: downloaded english list)")
	cmd.Flags().IntVar(&generateWords, "words", collector.DefaultPhraseLength, "words per mnemonic")
	cmd.Flags().BoolVar(&generateHex, "hex", false, "derive hex words from fresh entropy instead of a word list")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	gen := generator.New()
	phrase, err := generatePhrase(gen)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), phrase)
	return err
}

func generatePhrase(gen *generator.Generator) (string, error) {
	path := generateWordlist
	if path == "" && !generateHex {
		path = config.DefaultWordListPath("english")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			// No list downloaded yet: fall back to hex words.
			path = ""
		}
	}
	if generateHex || path == "" {
		entropy, err := gen.Entropy(generator.EntropySize)
		if err != nil {
			return "", err
		}
		return generator.FromEntropy(entropy, generateWords)
	}

	words, err := wordlist.LoadWords(path)
	if err != nil {
		return "", fmt.Errorf("failed to load word list: %w\nDownload: seedaudit wordlist", err)
	}
	picked, err := gen.Generate(words, generateWords)
	if err != nil {
		return "", err
	}
	return strings.Join(picked, " "), nil
}
