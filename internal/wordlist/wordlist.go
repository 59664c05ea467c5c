// Package wordlist loads and fetches mnemonic word lists.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	words, err := ReadWords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// ReadWords reads one word per line, skipping blank lines.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Validate rejects lists with repeated words or embedded whitespace.
func Validate(words []string) error {
	seen := make(map[string]int, len(words))
	for i, w := range words {
		if strings.ContainsFunc(w, func(r rune) bool { return r == ' ' || r == '\t' }) {
			return fmt.Errorf("word %d %q contains whitespace", i+1, w)
		}
		if prev, ok := seen[w]; ok {
			return fmt.Errorf("word %q repeated at lines %d and %d", w, prev+1, i+1)
		}
		seen[w] = i
	}
	return nil
}

// Set returns the words as a membership set.
func Set(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
