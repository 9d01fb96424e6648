package ports

import (
	"context"

	"perfgate/domain/gate"
)

// TraceReaderPort provides read-only access to a trace document (baseline
// or target), keeping the gate core decoupled from the concrete JSON file
// adapter the CLI wires in (§4.7's "external collaborator").
type TraceReaderPort interface {
	ReadTraces(ctx context.Context, path string) ([]gate.Trace, error)
}

// ReportWriterPort persists a RunSummary for consumption by external CI
// report collaborators. The core never owns persisted state.
type ReportWriterPort interface {
	WriteSummary(ctx context.Context, outputDir string, summary interface{}) error
}
