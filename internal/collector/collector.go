package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/seedaudit/internal/model"
)

const (
	DefaultRuns         = 1000
	DefaultTimeout      = 30 * time.Second
	DefaultPhraseLength = 12
)

// Config describes one collection loop.
type Config struct {
	Command      string
	Runs         int
	Timeout      time.Duration
	PhraseLength int
	// Workers > 1 runs invocations concurrently.
	Workers int
}

// Progress is reported after every attempt.
type Progress struct {
	Attempt  int
	Runs     int
	Accepted int
}

// Result holds everything collected in one loop. When Aborted is set the
// samples gathered before the failure are kept.
type Result struct {
	Samples  model.SampleSet
	Digests  []string
	Attempts int
	Rejected int
	Aborted  bool
	AbortErr error
}

// Collector drives a Runner N times.
type Collector struct {
	runner     Runner
	logger     *slog.Logger
	onProgress func(Progress)
}

// Option configures a Collector.
type Option func(*Collector)

// WithProgress registers a callback invoked after each attempt. In parallel
// mode calls are serialized.
func WithProgress(fn func(Progress)) Option {
	return func(c *Collector) { c.onProgress = fn }
}

// New builds a Collector.
func New(runner Runner, logger *slog.Logger, opts ...Option) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Collector{runner: runner, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func validate(cfg Config) error {
	if cfg.Command == "" {
		return fmt.Errorf("command is required")
	}
	if cfg.Runs <= 0 {
		return fmt.Errorf("runs must be > 0")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if cfg.PhraseLength <= 0 {
		return fmt.Errorf("phrase length must be > 0")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	return nil
}

// Collect runs the loop. The returned error is non-nil only for an invalid
// configuration; execution failures end the loop and are reported in
// Result.AbortErr.
func (c *Collector) Collect(ctx context.Context, cfg Config) (Result, error) {
	if err := validate(cfg); err != nil {
		return Result{}, model.ConfigError("collector.collect", err)
	}
	if cfg.Workers > 1 {
		return c.collectParallel(ctx, cfg), nil
	}
	return c.collectSequential(ctx, cfg), nil
}

type attempt struct {
	done     bool
	accepted bool
	sample   model.Sample
	err      error
}

func (c *Collector) invoke(ctx context.Context, cfg Config, i int) attempt {
	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	out, err := c.runner.Run(runCtx, cfg.Command)
	if err != nil {
		return attempt{done: true, err: &model.OpError{Op: "collector.run", Kind: model.KindExecution, Err: err}}
	}
	sample, err := Extract(out, cfg.PhraseLength)
	if err != nil {
		if errors.Is(err, ErrEmptyOutput) {
			c.logger.Warn("invocation produced empty output, ignoring", "attempt", i+1, "exit_code", out.ExitCode)
		} else {
			c.logger.Warn("invocation output rejected, ignoring", "attempt", i+1, "error", err)
		}
		return attempt{done: true}
	}
	return attempt{done: true, accepted: true, sample: sample}
}

func (c *Collector) collectSequential(ctx context.Context, cfg Config) Result {
	var res Result
	for i := 0; i < cfg.Runs; i++ {
		if err := ctx.Err(); err != nil {
			c.abort(&res, i, err)
			return res
		}
		a := c.invoke(ctx, cfg, i)
		res.Attempts++
		if a.err != nil {
			c.abort(&res, i, a.err)
			return res
		}
		c.record(&res, a)
		c.report(Progress{Attempt: i + 1, Runs: cfg.Runs, Accepted: len(res.Samples)})
	}
	return res
}

func (c *Collector) collectParallel(ctx context.Context, cfg Config) Result {
	attempts := make([]attempt, cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	var mu sync.Mutex
	finished, accepted := 0, 0
	firstFailed := -1

	for i := 0; i < cfg.Runs; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			a := c.invoke(gctx, cfg, i)
			attempts[i] = a
			if a.err != nil {
				mu.Lock()
				if firstFailed < 0 {
					firstFailed = i
				}
				mu.Unlock()
				return a.err
			}
			mu.Lock()
			finished++
			if a.accepted {
				accepted++
			}
			p := Progress{Attempt: finished, Runs: cfg.Runs, Accepted: accepted}
			c.report(p)
			mu.Unlock()
			return nil
		})
	}
	groupErr := g.Wait()

	var res Result
	for _, a := range attempts {
		if !a.done {
			continue
		}
		res.Attempts++
		if a.err != nil {
			continue
		}
		c.record(&res, a)
	}
	switch {
	case groupErr != nil:
		c.abort(&res, firstFailed, groupErr)
	case ctx.Err() != nil:
		c.abort(&res, res.Attempts, ctx.Err())
	}
	return res
}

func (c *Collector) record(res *Result, a attempt) {
	if !a.accepted {
		res.Rejected++
		return
	}
	res.Samples = append(res.Samples, a.sample)
	res.Digests = append(res.Digests, Digest(a.sample.Phrase))
}

func (c *Collector) abort(res *Result, index int, err error) {
	res.Aborted = true
	res.AbortErr = err
	c.logger.Error("collection aborted", "attempt", index+1, "accepted", len(res.Samples), "error", err)
}

func (c *Collector) report(p Progress) {
	if c.onProgress != nil {
		c.onProgress(p)
	}
}

// LogProgress returns a progress callback that logs every tenth of the runs.
func LogProgress(logger *slog.Logger) func(Progress) {
	return func(p Progress) {
		step := p.Runs / 10
		if step < 1 {
			step = 1
		}
		if p.Attempt%step == 0 {
			logger.Info("collecting samples", "attempt", p.Attempt, "runs", p.Runs, "accepted", p.Accepted)
		}
	}
}
