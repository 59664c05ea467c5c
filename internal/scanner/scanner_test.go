package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanFindsInsecureCalls(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gen.go"), `package gen

import "math/rand"

func Pick(words []string) string {
	return words[rand.Intn(len(words))]
}
`)
	writeFile(t, filepath.Join(dir, "sub", "alias.go"), `package sub

import (
	mr "math/rand/v2"
	"crypto/rand"
)

func Roll() int {
	b := make([]byte, 1)
	_, _ = rand.Read(b)
	return mr.IntN(6) + int(b[0])
}
`)

	findings, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %+v", findings)
	}
	if findings[0].File != filepath.Join(dir, "gen.go") || findings[0].Line != 6 {
		t.Fatalf("unexpected first finding %+v", findings[0])
	}
	if !strings.Contains(findings[0].Message, "math/rand.Intn") {
		t.Fatalf("unexpected message %q", findings[0].Message)
	}
	if findings[1].Line != 11 || !strings.Contains(findings[1].Message, "math/rand/v2.IntN") {
		t.Fatalf("unexpected alias finding %+v", findings[1])
	}
}

func TestScanIgnoresShadowedAndBlankImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "blank.go"), `package p

import _ "math/rand"

func f() {}
`)
	writeFile(t, filepath.Join(dir, "shadow.go"), `package p

import "math/rand"

type roller struct{}

func (roller) Intn(n int) int { return n }

var _ = rand.Perm

func g() int {
	rand := roller{}
	return rand.Intn(3)
}
`)

	findings, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestScanSkipsVendorTestdataHiddenAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	src := "package p\n\nimport \"math/rand\"\n\nvar x = rand.Int()\n"
	writeFile(t, filepath.Join(dir, "vendor", "v.go"), src)
	writeFile(t, filepath.Join(dir, "testdata", "t.go"), src)
	writeFile(t, filepath.Join(dir, ".git", "h.go"), src)
	writeFile(t, filepath.Join(dir, "broken.go"), "package p\nfunc {")
	writeFile(t, filepath.Join(dir, "notes.txt"), src)

	findings, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestScanSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.go")
	writeFile(t, path, "package p\n\nimport \"math/rand\"\n\nvar x = rand.Int()\n")
	findings, err := Scan(path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 1 || findings[0].Line != 5 {
		t.Fatalf("unexpected findings %+v", findings)
	}
}

func TestScanMissingPath(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
