// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// HarnessConfig defines one audit run.
type HarnessConfig struct {
	Command        string
	Runs           int
	OutputPath     string
	SaveSeeds      bool
	Encrypt        bool
	VocabularySize int
	Timeout        time.Duration
	PhraseLength   int
	Workers        int
	WordlistPath   string
	Progress       bool
	NoHistory      bool
}

// Sample is one accepted generator output.
type Sample struct {
	Phrase string
	Words  []string
}

// NewSample builds a Sample from a normalized phrase line.
func NewSample(line string) Sample {
	return Sample{Phrase: line, Words: strings.Fields(line)}
}

// SampleSet is the ordered list of accepted samples for one run.
type SampleSet []Sample

// Total returns the number of samples.
func (s SampleSet) Total() int { return len(s) }

// Unique returns the number of distinct phrases by exact string equality.
func (s SampleSet) Unique() int {
	seen := make(map[string]struct{}, len(s))
	for _, sample := range s {
		seen[sample.Phrase] = struct{}{}
	}
	return len(seen)
}

// Duplicates returns Total minus Unique.
func (s SampleSet) Duplicates() int { return s.Total() - s.Unique() }

// Phrases returns the raw phrase lines in order.
func (s SampleSet) Phrases() []string {
	out := make([]string, len(s))
	for i, sample := range s {
		out[i] = sample.Phrase
	}
	return out
}

// PositionStats holds the statistics for one word position.
type PositionStats struct {
	Position      int
	EntropyBits   float64
	IdealBits     float64
	Chi2Approx    float64
	DistinctWords int
	TotalSamples  int
}

// WordCount pairs a word with its occurrence count.
type WordCount struct {
	Word  string
	Count int
}

// Metrics is the analysis snapshot of one run. It is built once by the
// analyzer and only read afterwards.
type Metrics struct {
	PhraseLength              int
	VocabularySize            int
	TotalSamples              int
	UniqueMnemonics           int
	Duplicates                int
	DuplicateRate             float64
	PerPosition               []PositionStats
	TopGlobal                 []WordCount
	EstimatedTotalEntropyBits float64
	IdealTotalEntropyBits     float64
	// OutOfVocabulary is set only when a reference wordlist was supplied.
	OutOfVocabulary *int
}

// TotalWords returns the number of word occurrences across all samples.
func (m Metrics) TotalWords() int {
	return m.TotalSamples * m.PhraseLength
}

// EncryptedBlob is the sealed raw phrase set.
type EncryptedBlob struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// Finding is one static scanner hit.
type Finding struct {
	File    string
	Line    int
	Message string
}

// RunRecord summarizes a completed audit run for the history database.
type RunRecord struct {
	ID                   int64
	StartedAt            time.Time
	Command              string
	RunsRequested        int
	RunsCollected        int
	Duplicates           int
	DuplicateRate        float64
	EstimatedEntropyBits float64
	IdealEntropyBits     float64
	OutputPath           string
	Aborted              bool
}
