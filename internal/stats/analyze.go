// Package stats computes randomness-quality metrics for a sample set.
package stats

import (
	"fmt"

	"github.com/verte-zerg/seedaudit/internal/model"
)

const (
	DefaultPhraseLength   = 12
	DefaultVocabularySize = 2048
	DefaultTopN           = 30
)

// Options configures Analyze. Zero values fall back to the defaults.
type Options struct {
	PhraseLength   int
	VocabularySize int
	TopN           int
	// Vocabulary, when non-nil, enables the out-of-vocabulary count.
	Vocabulary map[string]struct{}
}

func (o Options) withDefaults() Options {
	if o.PhraseLength == 0 {
		o.PhraseLength = DefaultPhraseLength
	}
	if o.VocabularySize == 0 {
		o.VocabularySize = DefaultVocabularySize
	}
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}
	return o
}

// Analyze computes the metrics snapshot for a non-empty sample set.
// Positions are treated as independent, so the total entropy estimate is the
// sum of per-position entropies and ignores any inter-position correlation.
func Analyze(samples model.SampleSet, opts Options) (model.Metrics, error) {
	opts = opts.withDefaults()
	if len(samples) == 0 {
		return model.Metrics{}, model.ErrNoSamples
	}
	if opts.PhraseLength < 0 {
		return model.Metrics{}, model.ConfigError("stats.analyze", fmt.Errorf("phrase length must be > 0"))
	}
	if opts.VocabularySize < 0 {
		return model.Metrics{}, model.ConfigError("stats.analyze", fmt.Errorf("vocabulary size must be > 0"))
	}

	positions := make([]*frequencyTable, opts.PhraseLength)
	for i := range positions {
		positions[i] = newFrequencyTable()
	}
	global := newFrequencyTable()
	outOfVocab := 0

	for i, sample := range samples {
		if len(sample.Words) != opts.PhraseLength {
			return model.Metrics{}, fmt.Errorf("sample %d has %d words, want %d", i, len(sample.Words), opts.PhraseLength)
		}
		for pos, word := range sample.Words {
			positions[pos].add(word)
			global.add(word)
			if opts.Vocabulary != nil {
				if _, ok := opts.Vocabulary[word]; !ok {
					outOfVocab++
				}
			}
		}
	}

	total := samples.Total()
	unique := samples.Unique()
	ideal := IdealBits(opts.VocabularySize)

	perPosition := make([]model.PositionStats, opts.PhraseLength)
	estimated := 0.0
	for pos, table := range positions {
		ent := ShannonEntropy(table.counts, total)
		perPosition[pos] = model.PositionStats{
			Position:      pos,
			EntropyBits:   ent,
			IdealBits:     ideal,
			Chi2Approx:    ChiSquareApprox(table.counts, total, opts.VocabularySize),
			DistinctWords: len(table.counts),
			TotalSamples:  total,
		}
		estimated += ent
	}

	metrics := model.Metrics{
		PhraseLength:              opts.PhraseLength,
		VocabularySize:            opts.VocabularySize,
		TotalSamples:              total,
		UniqueMnemonics:           unique,
		Duplicates:                total - unique,
		DuplicateRate:             float64(total-unique) / float64(total),
		PerPosition:               perPosition,
		TopGlobal:                 global.top(opts.TopN),
		EstimatedTotalEntropyBits: estimated,
		IdealTotalEntropyBits:     ideal * float64(opts.PhraseLength),
	}
	if opts.Vocabulary != nil {
		metrics.OutOfVocabulary = &outOfVocab
	}
	return metrics, nil
}
