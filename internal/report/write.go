package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/seedaudit/internal/model"
)

// Format is the result file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serializes the payload.
func Encode(p Payload, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(p)
	default:
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
}

// Write stores the payload at path, creating parent directories. The file is
// written to a temp file first and renamed into place.
func Write(path string, p Payload) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &model.OpError{Op: "report.mkdir", Kind: model.KindExecution, Path: dir, Err: err}
	}
	b, err := Encode(p, FormatFor(path))
	if err != nil {
		return &model.OpError{Op: "report.marshal", Kind: model.KindExecution, Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return &model.OpError{Op: "report.write", Kind: model.KindExecution, Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmp.Write(b); err != nil {
		return &model.OpError{Op: "report.write", Kind: model.KindExecution, Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &model.OpError{Op: "report.write", Kind: model.KindExecution, Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &model.OpError{Op: "report.rename", Kind: model.KindExecution, Path: path, Err: err}
	}
	return nil
}

// ReadEncryptedSeeds loads the encrypted_seeds section of a result file.
func ReadEncryptedSeeds(path string) (model.EncryptedBlob, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("failed to read result file: %w", err)
	}
	var doc struct {
		EncryptedSeeds *EncryptedSeeds `json:"encrypted_seeds" yaml:"encrypted_seeds"`
	}
	switch FormatFor(path) {
	case FormatYAML:
		err = yaml.Unmarshal(b, &doc)
	default:
		err = json.Unmarshal(b, &doc)
	}
	if err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("failed to decode result file: %w", err)
	}
	if doc.EncryptedSeeds == nil {
		return model.EncryptedBlob{}, fmt.Errorf("result file %s has no encrypted_seeds section", path)
	}
	return doc.EncryptedSeeds.Blob()
}
