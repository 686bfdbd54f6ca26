// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document persistence, atomic with the search index
//   - SearchEngine: Ranked full-text search over stored documents
//   - ConfigStore: Application configuration
//   - Normaliser: File text extraction for directory ingestion
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Remote completion. Without it, answers carry a
//     configuration message while retrieval still runs.
//   - PromptStore: User-editable system instructions. Without it, the
//     built-in instructions are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
