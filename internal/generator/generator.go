// Package generator produces reference mnemonic phrases from a secure source.
package generator

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strings"
)

// EntropySize is the number of random bytes FromEntropy callers draw by default.
const EntropySize = 32

// maxHexWords is the number of 4-character chunks in a SHA-256 hex digest.
const maxHexWords = sha256.Size * 2 / 4

// Generator draws words uniformly from a list.
type Generator struct {
	src io.Reader
}

// New returns a Generator backed by crypto/rand.
func New() *Generator {
	return &Generator{src: rand.Reader}
}

// NewWithSource returns a Generator reading randomness from src.
func NewWithSource(src io.Reader) *Generator {
	return &Generator{src: src}
}

// Generate selects count words uniformly and independently from words.
func (g *Generator) Generate(words []string, count int) ([]string, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	if count <= 0 {
		return nil, fmt.Errorf("word count must be positive, got %d", count)
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n, err := g.index(uint64(len(words)))
		if err != nil {
			return nil, fmt.Errorf("failed to draw word: %w", err)
		}
		result = append(result, words[n])
	}
	return result, nil
}

// index returns a uniform value in [0, n) using rejection sampling.
func (g *Generator) index(n uint64) (uint64, error) {
	limit := math.MaxUint64 - math.MaxUint64%n
	var buf [8]byte
	for {
		if _, err := io.ReadFull(g.src, buf[:]); err != nil {
			return 0, err
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v < limit {
			return v % n, nil
		}
	}
}

// Entropy reads n random bytes.
func (g *Generator) Entropy(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.src, buf); err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	return buf, nil
}

// FromEntropy derives a phrase of count 4-character hex words from the
// SHA-256 digest of entropy. At most 16 words can be produced.
func FromEntropy(entropy []byte, count int) (string, error) {
	if count <= 0 || count > maxHexWords {
		return "", fmt.Errorf("word count must be between 1 and %d, got %d", maxHexWords, count)
	}
	sum := sha256.Sum256(entropy)
	digest := hex.EncodeToString(sum[:])
	words := make([]string, count)
	for i := range words {
		words[i] = digest[i*4 : i*4+4]
	}
	return strings.Join(words, " "), nil
}
