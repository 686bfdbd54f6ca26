// Package domain defines the core business entities for askdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored unit of knowledge usable as grounding material
//   - DocumentSummary: The id/title projection used for listings
//   - Answer: A generated answer together with the documents that backed it
//   - AppSettings: Resolved runtime configuration
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
