// Copyright 2026 The Gwaskit Authors
// SPDX-License-Identifier: MIT

package gwas

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultMaxItemsInMemory is the threshold above which a result set is
// spilled to disk instead of being returned inline.
const DefaultMaxItemsInMemory = 5000

// Envelope is the uniform response returned by every collection tool.
type Envelope struct {
	RequestURL        string           `json:"request_url"`
	Items             []map[string]any `json:"items"`
	TotalAfterProcess int              `json:"total_items_aft_process"`
	IsComplete        bool             `json:"is_complete"`
	Metadata          Metadata         `json:"metadata"`
}

// Metadata describes how the item subset in an Envelope was produced.
type Metadata struct {
	SubsetSize       int    `json:"subset_size"`
	MaxItemsInMemory int    `json:"max_items_in_memory"`
	TotalItems       int    `json:"total_items"`
	SignificantItems *int   `json:"significant_items,omitempty"`
	ReturnOnlySig    *bool  `json:"return_only_sig,omitempty"`
	OutputFile       string `json:"output_file,omitempty"`
	OutputFileError  string `json:"output_file_error,omitempty"`
}

// BuildOptions configures envelope construction for one tool call.
// There is no process-wide state; callers pass the resolved configuration
// explicitly.
type BuildOptions struct {
	MaxItemsInMemory int
	ForceToFile      bool
	ForceNoFile      bool
	OutputDir        string

	// TotalItems is the raw upstream count before any filtering.
	TotalItems int
	// Significant, when non-nil, records how many items passed the
	// genome-wide significance check (association-bearing tools only).
	Significant *int
	// ReturnOnlySig, when non-nil, echoes the significant-only setting.
	ReturnOnlySig *bool
}

// BuildEnvelope wraps the post-filter item sequence in a ResultEnvelope,
// spilling the complete sequence to a file in OutputDir when it exceeds the
// in-memory threshold (or when ForceToFile is set).
//
// ForceNoFile wins over everything, including ForceToFile: all items are
// returned inline and no file is written. When a required spill write fails
// the truncated items are still returned, is_complete stays false, and the
// failure is recorded in metadata.output_file_error instead of failing the
// call.
func BuildEnvelope(items []map[string]any, requestURL string, opts BuildOptions) *Envelope {
	if items == nil {
		items = []map[string]any{}
	}
	if opts.MaxItemsInMemory <= 0 {
		opts.MaxItemsInMemory = DefaultMaxItemsInMemory
	}

	env := &Envelope{
		RequestURL:        requestURL,
		Items:             items,
		TotalAfterProcess: len(items),
		IsComplete:        true,
		Metadata: Metadata{
			SubsetSize:       len(items),
			MaxItemsInMemory: opts.MaxItemsInMemory,
			TotalItems:       opts.TotalItems,
			SignificantItems: opts.Significant,
			ReturnOnlySig:    opts.ReturnOnlySig,
		},
	}

	if opts.ForceNoFile {
		return env
	}
	if !opts.ForceToFile && len(items) <= opts.MaxItemsInMemory {
		return env
	}

	// Spill: the file holds the complete post-filter sequence, the inline
	// subset is a deterministic prefix of the same sequence.
	env.IsComplete = false
	if len(items) > opts.MaxItemsInMemory {
		env.Items = items[:opts.MaxItemsInMemory]
	}
	env.Metadata.SubsetSize = len(env.Items)

	path, err := writeSpill(opts.OutputDir, requestURL, items)
	if err != nil {
		slog.Warn("spill write failed, returning truncated items only", "error", err)
		env.Metadata.OutputFileError = err.Error()
		return env
	}
	env.Metadata.OutputFile = path
	return env
}

// spillDocument is the on-disk layout of an overflow file.
type spillDocument struct {
	RequestURL string           `json:"request_url"`
	Items      []map[string]any `json:"items"`
}

// writeSpill writes the complete item sequence to a uniquely named JSON file
// under dir and returns the absolute path. The uuid suffix lets concurrent
// calls share an output directory without overwriting each other.
func writeSpill(dir, requestURL string, items []map[string]any) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	name := fmt.Sprintf("large_result_%s.json", uuid.NewString())
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(spillDocument{RequestURL: requestURL, Items: items}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling spill document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing spill file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	slog.Info("complete result written to file", "path", abs, "items", len(items))
	return abs, nil
}

// ReadSpill reads an overflow file back into memory. Primarily useful for
// callers verifying or post-processing a spilled result.
func ReadSpill(path string) (string, []map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided artifact path
	if err != nil {
		return "", nil, fmt.Errorf("reading spill file: %w", err)
	}
	var doc spillDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("decoding spill file %s: %w", path, err)
	}
	return doc.RequestURL, doc.Items, nil
}
