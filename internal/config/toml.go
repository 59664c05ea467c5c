// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Harness HarnessConfig `toml:"harness"`
}

// HarnessConfig maps audit-run settings. Nil fields were not present.
type HarnessConfig struct {
	Command        *string `toml:"cmd"`
	Runs           *int    `toml:"runs"`
	Out            *string `toml:"out"`
	SaveSeeds      *bool   `toml:"save-seeds"`
	Encrypt        *bool   `toml:"encrypt"`
	VocabularySize *int    `toml:"wordlist-size"`
	Wordlist       *string `toml:"wordlist"`
	PhraseLength   *int    `toml:"phrase-length"`
	TimeoutSeconds *int    `toml:"timeout"`
	Workers        *int    `toml:"workers"`
	Progress       *bool   `toml:"progress"`
	NoHistory      *bool   `toml:"no-history"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by "seedaudit config" when no file exists yet.
const Template = `# seedaudit configuration
# Values here are overridden by SEEDAUDIT_* environment variables and flags.

[harness]
# cmd = "python3 generator.py"
# runs = 1000
# out = "audit_results.json"
# save-seeds = false
# encrypt = false
# wordlist-size = 2048
# wordlist = ""
# phrase-length = 12
# timeout = 30
# workers = 1
# progress = false
# no-history = false
`
