// Package scanner finds calls into the non-cryptographic math/rand packages.
package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/verte-zerg/seedaudit/internal/model"
)

var insecureImports = map[string]bool{
	"math/rand":    true,
	"math/rand/v2": true,
}

// Scan walks path (a file or directory) and reports every call made through
// an insecure random import. Files that fail to parse are skipped.
func Scan(root string) ([]model.Finding, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	fset := token.NewFileSet()
	var findings []model.Finding
	if !info.IsDir() {
		findings = scanFile(fset, root)
		sortFindings(findings)
		return findings, nil
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".go") {
			findings = append(findings, scanFile(fset, p)...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sortFindings(findings)
	return findings, nil
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func scanFile(fset *token.FileSet, filename string) []model.Finding {
	file, err := parser.ParseFile(fset, filename, nil, 0)
	if err != nil {
		return nil
	}
	names := randNames(file)
	if len(names) == 0 {
		return nil
	}

	var out []model.Finding
	insp := inspector.New([]*ast.File{file})
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return
		}
		// A resolved object means a local declaration shadows the import.
		pkg, ok := names[ident.Name]
		if !ok || ident.Obj != nil {
			return
		}
		out = append(out, model.Finding{
			File:    filename,
			Line:    fset.Position(call.Pos()).Line,
			Message: fmt.Sprintf("Use of insecure RNG: %s.%s", pkg, sel.Sel.Name),
		})
	})
	return out
}

// randNames maps the local name of each insecure import to its path.
func randNames(file *ast.File) map[string]string {
	names := map[string]string{}
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !insecureImports[p] {
			continue
		}
		name := "rand"
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		names[name] = p
	}
	return names
}

func sortFindings(findings []model.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})
}
