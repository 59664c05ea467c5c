package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/seedaudit/internal/model"
	"github.com/verte-zerg/seedaudit/internal/vault"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("SEEDAUDIT_CONFIG", "")
	t.Setenv("SEEDAUDIT_DB", "")
	t.Setenv("NO_COLOR", "1")
	return dir
}

// withStdin replaces os.Stdin with a file holding content until the test ends.
func withStdin(t *testing.T, content string) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("stdin: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("stdin write: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	old := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = old
		_ = f.Close()
	})
}

func execute(t *testing.T, capability vault.Capability, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(capability)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHarnessEndToEnd(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := isolate(t)
	outPath := filepath.Join(dir, "audit.json")

	out, err := execute(t, vault.Capability{AEAD: true},
		"harness", "--cmd", "echo a b c d e f g h i j k l", "--runs", "3", "--out", outPath)
	if err != nil {
		t.Fatalf("harness: %v\n%s", err, out)
	}
	if !strings.Contains(out, "=== SUMMARY ===") {
		t.Fatalf("missing summary:\n%s", out)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	metrics := payload["metrics"].(map[string]any)
	if metrics["duplicates"].(float64) != 2 {
		t.Fatalf("expected 2 duplicates, got %v", metrics["duplicates"])
	}

	hist, err := execute(t, vault.Capability{AEAD: true}, "history", "--last", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(hist, "3/3") || !strings.Contains(hist, "echo a b c") {
		t.Fatalf("run not recorded:\n%s", hist)
	}
}

func TestHarnessRejectsSaveSeedsWithoutEncrypt(t *testing.T) {
	isolate(t)
	_, err := execute(t, vault.Capability{AEAD: true}, "harness", "--cmd", "true", "--save-seeds")
	if !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestHarnessRejectsEncryptWithoutCapability(t *testing.T) {
	isolate(t)
	_, err := execute(t, vault.Capability{}, "harness", "--cmd", "true", "--save-seeds", "--encrypt")
	if !errors.Is(err, model.ErrCryptoUnavailable) {
		t.Fatalf("expected crypto unavailable, got %v", err)
	}
}

func TestHarnessReadsConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "seedaudit.toml")
	if err := os.WriteFile(cfgPath, []byte("[harness]\nsave-seeds = true\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := execute(t, vault.Capability{AEAD: true}, "--config", cfgPath, "harness", "--cmd", "true")
	if !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("save-seeds from the config file should be validated, got %v", err)
	}

	// An explicit flag wins over the file.
	_, err = execute(t, vault.Capability{AEAD: true}, "--config", cfgPath, "harness", "--cmd", "true", "--save-seeds=false", "--runs", "0")
	if !errors.Is(err, model.ErrInvalidConfig) || !strings.Contains(err.Error(), "runs") {
		t.Fatalf("expected runs validation error, got %v", err)
	}
}

func TestScanCommand(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	code := "package p\n\nimport \"math/rand\"\n\nvar x = rand.Int()\n"
	if err := os.WriteFile(filepath.Join(src, "p.go"), []byte(code), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reportPath := filepath.Join(dir, "report.txt")

	out, err := execute(t, vault.Capability{}, "scan", src, "--report", reportPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "p.go:5 -> Use of insecure RNG: math/rand.Int") {
		t.Fatalf("unexpected scan output:\n%s", out)
	}
	raw, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(raw), "Findings:") {
		t.Fatalf("unexpected report:\n%s", raw)
	}
}

func TestGenerateHex(t *testing.T) {
	isolate(t)
	out, err := execute(t, vault.Capability{}, "generate", "--hex")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if words := strings.Fields(out); len(words) != 12 {
		t.Fatalf("expected 12 words, got %q", out)
	}
}

func TestGenerateFromWordlist(t *testing.T) {
	dir := isolate(t)
	list := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(list, []byte("only\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, vault.Capability{}, "generate", "--wordlist", list, "--words", "3")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.TrimSpace(out) != "only only only" {
		t.Fatalf("unexpected phrase %q", out)
	}
}

func TestDecryptRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := isolate(t)
	outPath := filepath.Join(dir, "audit.yaml")

	capability := vault.Capability{AEAD: true}
	withStdin(t, "pw\npw\n")
	if out, err := execute(t, capability, "harness", "--cmd", "echo a b c d e f g h i j k l", "--runs", "2",
		"--out", outPath, "--save-seeds", "--encrypt", "--no-history"); err != nil {
		t.Fatalf("harness: %v\n%s", err, out)
	}

	plainPath := filepath.Join(dir, "seeds.txt")
	withStdin(t, "pw\n")
	if out, err := execute(t, capability, "decrypt", outPath, "--out", plainPath); err != nil {
		t.Fatalf("decrypt: %v\n%s", err, out)
	}
	raw, err := os.ReadFile(plainPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "a b c d e f g h i j k l\na b c d e f g h i j k l\n"
	if string(raw) != want {
		t.Fatalf("unexpected plaintext %q", raw)
	}
}
