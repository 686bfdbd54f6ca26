// Package sqlite provides the SQLite-backed document store and full-text index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database connection serves
// two port interfaces:
//
//   - DocumentStore: append-only document persistence
//   - SearchEngine: FTS5 ranked search over titles and content
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The documents_fts table is an external-content FTS5 table whose rowid is the
// owning document's id. Index rows are written explicitly inside the insert
// transaction, so a document and its index entry commit or roll back together.
//
// # Data Location
//
// By default, the database is stored at ~/.askdesk/data/docs.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode; busy_timeout makes concurrent writers wait rather than fail.
package sqlite
