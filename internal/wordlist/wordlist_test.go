package wordlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadWordsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte("abandon\n\n  ability \nable\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(words, ",") != "abandon,ability,able" {
		t.Fatalf("unexpected words %v", words)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		words   []string
		wantErr bool
	}{
		{name: "ok", words: []string{"a", "b", "c"}},
		{name: "duplicate", words: []string{"a", "b", "a"}, wantErr: true},
		{name: "whitespace", words: []string{"a", "b c"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.words)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%v) error = %v, wantErr %v", tt.words, err, tt.wantErr)
			}
		})
	}
}

func TestSet(t *testing.T) {
	set := Set([]string{"a", "b", "a"})
	if len(set) != 2 {
		t.Fatalf("expected 2 members, got %d", len(set))
	}
	if _, ok := set["b"]; !ok {
		t.Fatalf("missing b")
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("abandon\nability\nable\n"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "wordlists", "english.txt")
	n, err := Download(context.Background(), srv.URL, dest, false)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 words, got %d", n)
	}
	words, err := LoadWords(dest)
	if err != nil || len(words) != 3 {
		t.Fatalf("reload: %v %v", words, err)
	}

	if _, err := Download(context.Background(), srv.URL, dest, false); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := Download(context.Background(), srv.URL, dest, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestDownloadRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "status", status: http.StatusNotFound, body: "missing"},
		{name: "duplicates", status: http.StatusOK, body: "a\nb\na\n"},
		{name: "empty", status: http.StatusOK, body: "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			dest := filepath.Join(t.TempDir(), "list.txt")
			if _, err := Download(context.Background(), srv.URL, dest, false); err == nil {
				t.Fatalf("expected error")
			}
			if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("destination must not exist after failure")
			}
		})
	}
}
