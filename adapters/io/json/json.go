// Package json implements ports.TraceReaderPort and ports.ReportWriterPort
// over the filesystem: reading a baseline/target trace document, and
// writing the orchestrator's RunSummary for external CI collaborators to
// consume.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"perfgate/domain/core"
	"perfgate/domain/gate"
)

// traceDocument mirrors the input JSON schema: an ordered list of named
// traces. Unknown top-level fields are ignored by encoding/json by default.
// Unknown per-trace fields are ignored as well and are not kept: a parsed
// entry carries only its name and values.
type traceDocument struct {
	Traces []traceEntry `json:"traces"`
}

type traceEntry struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Adapter implements TraceReaderPort and ReportWriterPort over plain files.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

// ReadTraces parses a trace document from path. A missing name, a
// duplicate name, or a malformed values array is a schema error (exit 2
// at the CLI boundary).
func (a *Adapter) ReadTraces(ctx context.Context, path string) ([]gate.Trace, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", core.ErrSchemaInvalid, path, err)
	}

	var doc traceDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", core.ErrSchemaInvalid, path, err)
	}

	seen := make(map[string]bool, len(doc.Traces))
	traces := make([]gate.Trace, 0, len(doc.Traces))
	for _, entry := range doc.Traces {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: in %s", core.ErrEmptyTraceName, path)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("%w: %s in %s", core.ErrDuplicateTraceName, entry.Name, path)
		}
		seen[entry.Name] = true

		traces = append(traces, gate.Trace{
			Name:   entry.Name,
			Values: gate.Sample(entry.Values),
		})
	}

	return traces, nil
}

// WriteSummary serializes summary as indented JSON to <outputDir>/summary.json,
// creating outputDir if it does not already exist.
func (a *Adapter) WriteSummary(ctx context.Context, outputDir string, summary interface{}) error {
	if outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run summary: %w", err)
	}

	path := filepath.Join(outputDir, "summary.json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
