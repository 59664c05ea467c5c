package wordlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultURL points at the canonical English mnemonic word list.
const DefaultURL = "https://raw.githubusercontent.com/bitcoin/bips/master/bip-0039/english.txt"

// ErrExists is returned when the destination exists and overwrite was not requested.
var ErrExists = errors.New("word list already exists")

const maxListBytes = 1 << 20

// Download fetches a word list from url and writes it to dest atomically.
// The body must parse as a valid list; the word count is returned.
func Download(ctx context.Context, url, dest string, overwrite bool) (int, error) {
	if dest == "" {
		return 0, fmt.Errorf("destination path is required")
	}
	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return 0, fmt.Errorf("%s: %w", dest, ErrExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("failed to stat word list: %w", err)
		}
	}

	resp, err := httpRequest(ctx, url)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected word list status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListBytes+1))
	if err != nil {
		return 0, fmt.Errorf("failed to download word list: %w", err)
	}
	if len(body) > maxListBytes {
		return 0, fmt.Errorf("word list exceeds %d bytes", maxListBytes)
	}
	words, err := ReadWords(bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	if err := Validate(words); err != nil {
		return 0, err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "wordlist-*.txt")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(body); err != nil {
		return 0, fmt.Errorf("failed to write word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp word list: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return 0, fmt.Errorf("failed to move word list into place: %w", err)
	}
	return len(words), nil
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
