// Package audit runs the collect, analyze, archive and report pipeline.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/verte-zerg/seedaudit/internal/collector"
	"github.com/verte-zerg/seedaudit/internal/model"
	"github.com/verte-zerg/seedaudit/internal/progressui"
	"github.com/verte-zerg/seedaudit/internal/report"
	"github.com/verte-zerg/seedaudit/internal/stats"
	"github.com/verte-zerg/seedaudit/internal/ui"
	"github.com/verte-zerg/seedaudit/internal/vault"
	"github.com/verte-zerg/seedaudit/internal/wordlist"
)

const (
	passphrasePrompt = "Passphrase to encrypt the seeds (not echoed): "
	confirmPrompt    = "Repeat passphrase: "
)

// History records completed runs.
type History interface {
	InsertRun(ctx context.Context, rec model.RunRecord, positions []model.PositionStats) (int64, error)
}

// ProgressFunc runs work while drawing its progress.
type ProgressFunc func(ctx context.Context, runs int, work progressui.Work) error

// Deps are the collaborators of one run.
type Deps struct {
	Runner     collector.Runner
	Logger     *slog.Logger
	Capability vault.Capability
	Passphrase vault.PassphraseReader
	// History is optional.
	History History
	Printer *ui.Printer
	// Progress is used when the run asks for a progress view.
	Progress ProgressFunc
	// BarWidth sizes the entropy profile; zero hides it.
	BarWidth int
	Now      func() time.Time
}

// Outcome describes what a run produced.
type Outcome struct {
	Collected collector.Result
	// Metrics is nil when no samples were accepted.
	Metrics *model.Metrics
	Payload *report.Payload
	RunID   int64
}

// Validate checks the configuration against the crypto capability. It runs
// before any collection work.
func Validate(cfg model.HarnessConfig, capability vault.Capability) error {
	if cfg.SaveSeeds && !cfg.Encrypt {
		return model.ConfigError("audit.validate", errors.New("--save-seeds requires --encrypt to store full seeds safely"))
	}
	if cfg.Encrypt && !capability.AEAD {
		reason := errors.New("authenticated encryption is unavailable")
		if capability.Err != nil {
			reason = fmt.Errorf("authenticated encryption is unavailable: %w", capability.Err)
		}
		return &model.OpError{Op: "audit.validate", Kind: model.KindCryptoUnavailable, Err: reason}
	}
	if strings.TrimSpace(cfg.Command) == "" {
		return model.ConfigError("audit.validate", errors.New("command is required"))
	}
	if cfg.Runs <= 0 {
		return model.ConfigError("audit.validate", fmt.Errorf("runs must be > 0, got %d", cfg.Runs))
	}
	if cfg.Timeout <= 0 {
		return model.ConfigError("audit.validate", fmt.Errorf("timeout must be > 0, got %s", cfg.Timeout))
	}
	if cfg.PhraseLength <= 0 {
		return model.ConfigError("audit.validate", fmt.Errorf("phrase length must be > 0, got %d", cfg.PhraseLength))
	}
	if cfg.VocabularySize < 0 {
		return model.ConfigError("audit.validate", fmt.Errorf("vocabulary size must be > 0, got %d", cfg.VocabularySize))
	}
	if cfg.Workers < 0 {
		return model.ConfigError("audit.validate", fmt.Errorf("workers must be >= 0, got %d", cfg.Workers))
	}
	return nil
}

// Run executes one audit. A run that accepts no samples is not an error.
func Run(ctx context.Context, cfg model.HarnessConfig, deps Deps) (Outcome, error) {
	deps = deps.withDefaults()
	if err := Validate(cfg, deps.Capability); err != nil {
		return Outcome{}, err
	}
	if cfg.SaveSeeds && deps.Passphrase == nil {
		return Outcome{}, model.ConfigError("audit.run", errors.New("no passphrase source available"))
	}

	opts := stats.Options{PhraseLength: cfg.PhraseLength, VocabularySize: cfg.VocabularySize}
	if cfg.WordlistPath != "" {
		words, err := wordlist.LoadWords(cfg.WordlistPath)
		if err != nil {
			return Outcome{}, &model.OpError{Op: "audit.wordlist", Kind: model.KindInvalidConfig, Path: cfg.WordlistPath, Err: err}
		}
		if err := wordlist.Validate(words); err != nil {
			return Outcome{}, &model.OpError{Op: "audit.wordlist", Kind: model.KindInvalidConfig, Path: cfg.WordlistPath, Err: err}
		}
		opts.Vocabulary = wordlist.Set(words)
		if opts.VocabularySize == 0 {
			opts.VocabularySize = len(words)
		}
	}

	startedAt := deps.Now()
	deps.Printer.Warnf("Run only in authorized environments. Collecting samples...")

	res, err := collect(ctx, cfg, deps)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Collected: res}
	if res.Aborted {
		deps.Printer.Errorf("Running command: %v", res.AbortErr)
	}
	if len(res.Samples) == 0 {
		deps.Printer.Resultf("No valid mnemonics collected.")
		return out, nil
	}

	metrics, err := stats.Analyze(res.Samples, opts)
	if err != nil {
		return out, err
	}
	out.Metrics = &metrics

	payload := report.Payload{
		Metadata: report.Metadata{
			Command:       cfg.Command,
			RunsRequested: cfg.Runs,
			RunsCollected: len(res.Samples),
			Aborted:       res.Aborted,
		},
		Metrics:      report.FromMetrics(metrics),
		SampleHashes: res.Digests,
	}
	if res.Aborted && res.AbortErr != nil {
		payload.Metadata.AbortReason = res.AbortErr.Error()
	}

	if cfg.SaveSeeds {
		enc, err := seal(res.Samples, deps.Passphrase)
		if err != nil {
			return out, err
		}
		payload.EncryptedSeeds = report.EncodeBlob(enc)
		deps.Printer.Infof("Seeds encrypted and added to the payload.")
	}
	out.Payload = &payload

	if cfg.OutputPath != "" {
		if err := report.Write(cfg.OutputPath, payload); err != nil {
			return out, err
		}
		deps.Printer.Successf("Result saved to %s", cfg.OutputPath)
	}

	w := deps.Printer.Writer()
	if err := report.RenderSummary(w, metrics); err != nil {
		return out, err
	}
	if deps.BarWidth > 0 {
		if err := ui.RenderEntropyProfile(w, metrics, deps.BarWidth); err != nil {
			return out, err
		}
	}

	if deps.History != nil && !cfg.NoHistory {
		rec := model.RunRecord{
			StartedAt:            startedAt,
			Command:              cfg.Command,
			RunsRequested:        cfg.Runs,
			RunsCollected:        len(res.Samples),
			Duplicates:           metrics.Duplicates,
			DuplicateRate:        metrics.DuplicateRate,
			EstimatedEntropyBits: metrics.EstimatedTotalEntropyBits,
			IdealEntropyBits:     metrics.IdealTotalEntropyBits,
			OutputPath:           cfg.OutputPath,
			Aborted:              res.Aborted,
		}
		id, err := deps.History.InsertRun(ctx, rec, metrics.PerPosition)
		if err != nil {
			deps.Logger.Warn("failed to record run history", "error", err)
		} else {
			out.RunID = id
		}
	}
	return out, nil
}

func collect(ctx context.Context, cfg model.HarnessConfig, deps Deps) (collector.Result, error) {
	ccfg := collector.Config{
		Command:      cfg.Command,
		Runs:         cfg.Runs,
		Timeout:      cfg.Timeout,
		PhraseLength: cfg.PhraseLength,
		Workers:      cfg.Workers,
	}
	var res collector.Result
	work := func(ctx context.Context, progress func(collector.Progress)) error {
		c := collector.New(deps.Runner, deps.Logger, collector.WithProgress(progress))
		var err error
		res, err = c.Collect(ctx, ccfg)
		return err
	}
	if cfg.Progress && deps.Progress != nil {
		return res, deps.Progress(ctx, cfg.Runs, work)
	}
	return res, work(ctx, collector.LogProgress(deps.Logger))
}

func seal(samples model.SampleSet, r vault.PassphraseReader) (model.EncryptedBlob, error) {
	var blob model.EncryptedBlob
	err := vault.WithConfirmedPassphrase(r, passphrasePrompt, confirmPrompt, func(passphrase []byte) error {
		plaintext := []byte(strings.Join(samples.Phrases(), "\n"))
		defer clear(plaintext)
		var err error
		blob, err = vault.Encrypt(plaintext, passphrase)
		return err
	})
	if err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("failed to encrypt seeds: %w", err)
	}
	return blob, nil
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Printer == nil {
		d.Printer = ui.NewPrinterWithColor(io.Discard, false)
	}
	if d.Runner == nil {
		d.Runner = collector.NewShellRunner()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}
