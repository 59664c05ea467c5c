// Package report serializes audit results and renders human-readable
// summaries.
package report

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/seedaudit/internal/model"
)

// Payload is the structured result file.
type Payload struct {
	Metadata       Metadata        `json:"metadata" yaml:"metadata"`
	Metrics        Metrics         `json:"metrics" yaml:"metrics"`
	SampleHashes   []string        `json:"samples_hashes_sha256" yaml:"samples_hashes_sha256"`
	EncryptedSeeds *EncryptedSeeds `json:"encrypted_seeds,omitempty" yaml:"encrypted_seeds,omitempty"`
}

// Metadata describes the run that produced the payload.
type Metadata struct {
	Command       string `json:"cmd" yaml:"cmd"`
	RunsRequested int    `json:"runs_requested" yaml:"runs_requested"`
	RunsCollected int    `json:"runs_collected" yaml:"runs_collected"`
	Aborted       bool   `json:"aborted,omitempty" yaml:"aborted,omitempty"`
	AbortReason   string `json:"abort_reason,omitempty" yaml:"abort_reason,omitempty"`
}

// Metrics mirrors model.Metrics with the output field names.
type Metrics struct {
	TotalSamples              int           `json:"total_samples" yaml:"total_samples"`
	UniqueMnemonics           int           `json:"unique_mnemonics" yaml:"unique_mnemonics"`
	Duplicates                int           `json:"duplicates" yaml:"duplicates"`
	DuplicateRate             float64       `json:"duplicate_rate" yaml:"duplicate_rate"`
	PerPosition               PositionTable `json:"per_position" yaml:"per_position"`
	TopGlobal                 WordPairs     `json:"top_global" yaml:"top_global"`
	EstimatedTotalEntropyBits float64       `json:"estimated_total_entropy_bits" yaml:"estimated_total_entropy_bits"`
	IdealTotalEntropyBits     float64       `json:"ideal_total_entropy_bits" yaml:"ideal_total_entropy_bits"`
	OutOfVocabulary           *int          `json:"out_of_vocabulary,omitempty" yaml:"out_of_vocabulary,omitempty"`
}

// PositionStats is one per_position entry.
type PositionStats struct {
	EntropyBits   float64 `json:"entropy_bits" yaml:"entropy_bits"`
	IdealBits     float64 `json:"ideal_bits" yaml:"ideal_bits"`
	Chi2Approx    float64 `json:"chi2_approx" yaml:"chi2_approx"`
	DistinctWords int     `json:"distinct_words" yaml:"distinct_words"`
	TotalSamples  int     `json:"total_samples" yaml:"total_samples"`
}

// PositionTable encodes as an object keyed by position index, in position
// order.
type PositionTable []PositionStats

// MarshalJSON implements json.Marshaler.
func (t PositionTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, st := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(strconv.Itoa(i))
		val, err := json.Marshal(st)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *PositionTable) UnmarshalJSON(data []byte) error {
	var raw map[string]PositionStats
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PositionTable, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= len(raw) {
			return fmt.Errorf("invalid position key %q", k)
		}
		out[idx] = v
	}
	*t = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t PositionTable) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, st := range t {
		var val yaml.Node
		if err := val.Encode(st); err != nil {
			return nil, err
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: strconv.Itoa(i)}
		node.Content = append(node.Content, key, &val)
	}
	return node, nil
}

// WordPairs encodes as a list of [word, count] pairs.
type WordPairs []model.WordCount

// MarshalJSON implements json.Marshaler.
func (w WordPairs) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(w))
	for i, wc := range w {
		pairs[i] = [2]any{wc.Word, wc.Count}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *WordPairs) UnmarshalJSON(data []byte) error {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	out := make(WordPairs, len(pairs))
	for i, p := range pairs {
		if err := json.Unmarshal(p[0], &out[i].Word); err != nil {
			return fmt.Errorf("top_global[%d] word: %w", i, err)
		}
		if err := json.Unmarshal(p[1], &out[i].Count); err != nil {
			return fmt.Errorf("top_global[%d] count: %w", i, err)
		}
	}
	*w = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (w WordPairs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, wc := range w {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.SequenceNode,
			Style: yaml.FlowStyle,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: wc.Word},
				{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(wc.Count)},
			},
		})
	}
	return node, nil
}

// EncryptedSeeds is the hex form of a model.EncryptedBlob.
type EncryptedSeeds struct {
	SaltHex   string `json:"salt_hex" yaml:"salt_hex"`
	NonceHex  string `json:"nonce_hex" yaml:"nonce_hex"`
	CipherHex string `json:"cipher_hex" yaml:"cipher_hex"`
}

// EncodeBlob converts a blob to its hex form.
func EncodeBlob(blob model.EncryptedBlob) *EncryptedSeeds {
	return &EncryptedSeeds{
		SaltHex:   hex.EncodeToString(blob.Salt),
		NonceHex:  hex.EncodeToString(blob.Nonce),
		CipherHex: hex.EncodeToString(blob.Ciphertext),
	}
}

// Blob decodes the hex fields.
func (e EncryptedSeeds) Blob() (model.EncryptedBlob, error) {
	salt, err := hex.DecodeString(e.SaltHex)
	if err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("invalid salt_hex: %w", err)
	}
	nonce, err := hex.DecodeString(e.NonceHex)
	if err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("invalid nonce_hex: %w", err)
	}
	ct, err := hex.DecodeString(e.CipherHex)
	if err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("invalid cipher_hex: %w", err)
	}
	return model.EncryptedBlob{Salt: salt, Nonce: nonce, Ciphertext: ct}, nil
}

// FromMetrics copies an analysis snapshot into the output shape.
func FromMetrics(m model.Metrics) Metrics {
	positions := make(PositionTable, len(m.PerPosition))
	for i, p := range m.PerPosition {
		positions[i] = PositionStats{
			EntropyBits:   p.EntropyBits,
			IdealBits:     p.IdealBits,
			Chi2Approx:    p.Chi2Approx,
			DistinctWords: p.DistinctWords,
			TotalSamples:  p.TotalSamples,
		}
	}
	top := make(WordPairs, len(m.TopGlobal))
	copy(top, m.TopGlobal)
	out := Metrics{
		TotalSamples:              m.TotalSamples,
		UniqueMnemonics:           m.UniqueMnemonics,
		Duplicates:                m.Duplicates,
		DuplicateRate:             m.DuplicateRate,
		PerPosition:               positions,
		TopGlobal:                 top,
		EstimatedTotalEntropyBits: m.EstimatedTotalEntropyBits,
		IdealTotalEntropyBits:     m.IdealTotalEntropyBits,
	}
	if m.OutOfVocabulary != nil {
		v := *m.OutOfVocabulary
		out.OutOfVocabulary = &v
	}
	return out
}
