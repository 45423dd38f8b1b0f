// Package domain defines the core business entities for the procedures knowledge base.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A retrievable unit of document text with an identity key
//   - ServiceCall / Interaction: Records parsed from service-call transcripts
//   - SearchHit / AggregatedDocument: Per-query similarity results
//   - UnansweredQuestion: A query that produced no similarity hits
//   - RawContent: Plain text extracted from a file before chunking
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
