package stats

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/verte-zerg/seedaudit/internal/model"
)

func repeatPhrase(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func samplesFrom(lines ...string) model.SampleSet {
	set := make(model.SampleSet, 0, len(lines))
	for _, line := range lines {
		set = append(set, model.NewSample(line))
	}
	return set
}

func TestAnalyzeMixedExample(t *testing.T) {
	a := repeatPhrase("a", 12)
	b := repeatPhrase("b", 12)
	metrics, err := Analyze(samplesFrom(a, a, a, b, b), Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if metrics.TotalSamples != 5 || metrics.UniqueMnemonics != 2 || metrics.Duplicates != 3 {
		t.Fatalf("unexpected counts: %+v", metrics)
	}
	if math.Abs(metrics.DuplicateRate-0.6) > 1e-12 {
		t.Fatalf("expected duplicate rate 0.6, got %f", metrics.DuplicateRate)
	}
	want := -(0.6*math.Log2(0.6) + 0.4*math.Log2(0.4))
	if math.Abs(metrics.PerPosition[0].EntropyBits-want) > 1e-12 {
		t.Fatalf("expected entropy %f, got %f", want, metrics.PerPosition[0].EntropyBits)
	}
	if math.Abs(metrics.PerPosition[0].EntropyBits-0.971) > 1e-3 {
		t.Fatalf("expected ~0.971 bits, got %f", metrics.PerPosition[0].EntropyBits)
	}
	if len(metrics.TopGlobal) != 2 {
		t.Fatalf("expected 2 top words, got %v", metrics.TopGlobal)
	}
	if metrics.TopGlobal[0] != (model.WordCount{Word: "a", Count: 36}) || metrics.TopGlobal[1] != (model.WordCount{Word: "b", Count: 24}) {
		t.Fatalf("unexpected top words: %v", metrics.TopGlobal)
	}
	if math.Abs(metrics.EstimatedTotalEntropyBits-12*want) > 1e-9 {
		t.Fatalf("unexpected total entropy %f", metrics.EstimatedTotalEntropyBits)
	}
	if math.Abs(metrics.IdealTotalEntropyBits-132) > 1e-9 {
		t.Fatalf("expected ideal total 132, got %f", metrics.IdealTotalEntropyBits)
	}
	if metrics.OutOfVocabulary != nil {
		t.Fatalf("out-of-vocabulary must be unset without a wordlist")
	}
}

func TestAnalyzeAllIdentical(t *testing.T) {
	line := repeatPhrase("abandon", 12)
	metrics, err := Analyze(samplesFrom(line, line, line, line), Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if metrics.DuplicateRate != 0.75 {
		t.Fatalf("expected duplicate rate 0.75 for 4 identical samples, got %f", metrics.DuplicateRate)
	}
	for _, pos := range metrics.PerPosition {
		if pos.EntropyBits != 0 {
			t.Fatalf("position %d: expected zero entropy, got %f", pos.Position, pos.EntropyBits)
		}
		if pos.DistinctWords != 1 || pos.TotalSamples != 4 {
			t.Fatalf("position %d: unexpected stats %+v", pos.Position, pos)
		}
	}
}

func TestAnalyzeDuplicateRateApproachesOne(t *testing.T) {
	// The first copy always counts as unique, so an identical set of n
	// samples has rate (n-1)/n.
	line := repeatPhrase("zoo", 12)
	lines := make([]string, 1000)
	for i := range lines {
		lines[i] = line
	}
	metrics, err := Analyze(samplesFrom(lines...), Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if metrics.DuplicateRate != 0.999 {
		t.Fatalf("expected 0.999, got %f", metrics.DuplicateRate)
	}
}

func TestAnalyzeCountsInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.IntN(40)
		lines := make([]string, n)
		for i := range lines {
			words := make([]string, 3)
			for j := range words {
				words[j] = string(rune('a' + rng.IntN(3)))
			}
			lines[i] = strings.Join(words, " ")
		}
		metrics, err := Analyze(samplesFrom(lines...), Options{PhraseLength: 3, VocabularySize: 3})
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if metrics.Duplicates+metrics.UniqueMnemonics != metrics.TotalSamples {
			t.Fatalf("trial %d: duplicates+unique != total: %+v", trial, metrics)
		}
		for _, pos := range metrics.PerPosition {
			if pos.EntropyBits < 0 || pos.EntropyBits > pos.IdealBits+1e-9 {
				t.Fatalf("trial %d: entropy %f out of range", trial, pos.EntropyBits)
			}
		}
	}
}

func TestAnalyzeUniformApproachesIdeal(t *testing.T) {
	const vocab = 64
	const n = vocab * 200
	words := make([]string, vocab)
	for i := range words {
		words[i] = "w" + string(rune('A'+i/26)) + string(rune('a'+i%26))
	}
	rng := rand.New(rand.NewPCG(42, 1337))
	lines := make([]string, n)
	for i := range lines {
		lines[i] = words[rng.IntN(vocab)] + " " + words[rng.IntN(vocab)]
	}
	metrics, err := Analyze(samplesFrom(lines...), Options{PhraseLength: 2, VocabularySize: vocab})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, pos := range metrics.PerPosition {
		if pos.IdealBits != 6 {
			t.Fatalf("expected ideal 6 bits, got %f", pos.IdealBits)
		}
		if pos.IdealBits-pos.EntropyBits > 0.02 {
			t.Fatalf("position %d: entropy %f too far from ideal", pos.Position, pos.EntropyBits)
		}
		if math.Abs(pos.Chi2Approx-(vocab-1)) > 45 {
			t.Fatalf("position %d: chi2 %f too far from %d", pos.Position, pos.Chi2Approx, vocab-1)
		}
	}
}

func TestAnalyzeOutOfVocabulary(t *testing.T) {
	vocab := map[string]struct{}{"a": {}, "b": {}}
	metrics, err := Analyze(samplesFrom("a b c", "a x b"), Options{PhraseLength: 3, VocabularySize: 2, Vocabulary: vocab})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if metrics.OutOfVocabulary == nil || *metrics.OutOfVocabulary != 2 {
		t.Fatalf("expected 2 out-of-vocabulary words, got %v", metrics.OutOfVocabulary)
	}
}

func TestAnalyzeRejectsEmptyAndMismatchedSamples(t *testing.T) {
	if _, err := Analyze(nil, Options{}); !errors.Is(err, model.ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
	if _, err := Analyze(samplesFrom("a b"), Options{PhraseLength: 3}); err == nil {
		t.Fatalf("expected error for short sample")
	}
	if _, err := Analyze(samplesFrom("a"), Options{PhraseLength: 1, VocabularySize: -1}); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestTopWordsTieKeepsFirstSeenOrder(t *testing.T) {
	metrics, err := Analyze(samplesFrom("z y", "y z", "x w"), Options{PhraseLength: 2, TopN: 3})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []model.WordCount{{Word: "z", Count: 2}, {Word: "y", Count: 2}, {Word: "x", Count: 1}}
	for i, wc := range want {
		if metrics.TopGlobal[i] != wc {
			t.Fatalf("unexpected top order: %v", metrics.TopGlobal)
		}
	}
}
