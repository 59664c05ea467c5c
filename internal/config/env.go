package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds SEEDAUDIT_* overrides. Nil fields were not set.
type EnvConfig struct {
	Command        *string `env:"CMD"`
	Runs           *int    `env:"RUNS"`
	Out            *string `env:"OUT"`
	SaveSeeds      *bool   `env:"SAVE_SEEDS"`
	Encrypt        *bool   `env:"ENCRYPT"`
	VocabularySize *int    `env:"WORDLIST_SIZE"`
	Wordlist       *string `env:"WORDLIST"`
	PhraseLength   *int    `env:"PHRASE_LENGTH"`
	TimeoutSeconds *int    `env:"TIMEOUT"`
	Workers        *int    `env:"WORKERS"`
	Progress       *bool   `env:"PROGRESS"`
	NoHistory      *bool   `env:"NO_HISTORY"`
	ConfigPath     string  `env:"CONFIG"`
	LogFile        string  `env:"LOG_FILE"`
	DBPath         string  `env:"DB"`
}

// LoadEnv parses SEEDAUDIT_* variables from the process environment.
func LoadEnv() (EnvConfig, error) {
	return parseEnv(env.Options{Prefix: "SEEDAUDIT_"})
}

// LoadEnvFrom parses variables from the given map instead of the process environment.
func LoadEnvFrom(vars map[string]string) (EnvConfig, error) {
	return parseEnv(env.Options{Prefix: "SEEDAUDIT_", Environment: vars})
}

func parseEnv(opts env.Options) (EnvConfig, error) {
	cfg, err := env.ParseAsWithOptions[EnvConfig](opts)
	if err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Harness folds the environment overrides over the file settings.
func (e EnvConfig) Harness(file HarnessConfig) HarnessConfig {
	out := file
	override(&out.Command, e.Command)
	override(&out.Runs, e.Runs)
	override(&out.Out, e.Out)
	override(&out.SaveSeeds, e.SaveSeeds)
	override(&out.Encrypt, e.Encrypt)
	override(&out.VocabularySize, e.VocabularySize)
	override(&out.Wordlist, e.Wordlist)
	override(&out.PhraseLength, e.PhraseLength)
	override(&out.TimeoutSeconds, e.TimeoutSeconds)
	override(&out.Workers, e.Workers)
	override(&out.Progress, e.Progress)
	override(&out.NoHistory, e.NoHistory)
	return out
}

func override[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
