package stats

import "math"

// ShannonEntropy returns the entropy in bits of the observed distribution.
func ShannonEntropy(counts map[string]int, total int) float64 {
	if total <= 0 {
		return 0
	}
	ent := 0.0
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		p := float64(c) / float64(total)
		ent -= p * math.Log2(p)
	}
	return ent
}

// IdealBits returns log2 of the vocabulary size.
func IdealBits(vocabSize int) float64 {
	if vocabSize <= 0 {
		return 0
	}
	return math.Log2(float64(vocabSize))
}

// ChiSquareApprox compares the observed counts against a uniform distribution
// over vocabSize words. Unobserved vocabulary words each contribute the
// expected count, so the statistic is biased low whenever the generator's real
// vocabulary is larger than vocabSize.
func ChiSquareApprox(counts map[string]int, total, vocabSize int) float64 {
	if total <= 0 || vocabSize <= 0 {
		return 0
	}
	expected := float64(total) / float64(vocabSize)
	chi2 := 0.0
	for _, o := range counts {
		d := float64(o) - expected
		chi2 += d * d / expected
	}
	if missing := vocabSize - len(counts); missing > 0 {
		chi2 += float64(missing) * expected
	}
	return chi2
}
