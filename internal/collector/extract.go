package collector

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/seedaudit/internal/model"
)

var (
	// ErrEmptyOutput marks an invocation that printed nothing usable.
	ErrEmptyOutput = errors.New("empty output")
	// ErrWordCount marks an output whose first line has the wrong word count.
	ErrWordCount = errors.New("unexpected word count")
)

// Extract validates one invocation's output. Stdout is used unless it is
// blank, in which case stderr is used. Only the first line counts.
func Extract(out Output, phraseLength int) (model.Sample, error) {
	text := strings.TrimSpace(out.Stdout)
	if text == "" {
		text = strings.TrimSpace(out.Stderr)
	}
	if text == "" {
		return model.Sample{}, ErrEmptyOutput
	}
	line := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		line = text[:idx]
	}
	line = strings.TrimSpace(line)
	sample := model.NewSample(line)
	if len(sample.Words) != phraseLength {
		return model.Sample{}, fmt.Errorf("%w: got %d, want %d", ErrWordCount, len(sample.Words), phraseLength)
	}
	return sample, nil
}

// Digest returns the hex SHA-256 of a phrase.
func Digest(phrase string) string {
	sum := sha256.Sum256([]byte(phrase))
	return hex.EncodeToString(sum[:])
}
