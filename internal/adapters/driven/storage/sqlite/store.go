package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
)

// preallocCap bounds result slice preallocation; limit comes from callers.
const preallocCap = 64

// Store is a SQLite-based storage that provides the document store and the
// search index through wrapper types sharing one database.
type Store struct {
	db   *sql.DB
	path string

	// beforeIndex runs between the document insert and the index insert.
	// Tests use it to inject a failure mid-transaction.
	beforeIndex func() error
}

// NewStore opens (or creates) the database at dbPath.
// If dbPath is empty, defaults to ~/.askdesk/data/docs.db.
// Safe to call on every start: migrations are versioned and idempotent.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".askdesk", "data", "docs.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// SearchEngine returns a SearchEngine interface backed by this store.
func (s *Store) SearchEngine() driven.SearchEngine {
	return &searchEngine{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Insert stores a document and its index entry in one transaction.
func (s *documentStore) Insert(ctx context.Context, title, content string) (int64, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		"INSERT INTO documents (title, content, created_at) VALUES (?, ?, ?)",
		title, content, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}

	if s.store.beforeIndex != nil {
		if err := s.store.beforeIndex(); err != nil {
			return 0, fmt.Errorf("indexing document: %w", err)
		}
	}

	if err := indexDocument(ctx, tx, id, title, content); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// indexDocument writes the index entry for a document. Only called inside Insert.
func indexDocument(ctx context.Context, tx *sql.Tx, id int64, title, content string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO documents_fts (rowid, title, content) VALUES (?, ?, ?)",
		id, title, content)
	if err != nil {
		return fmt.Errorf("indexing document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT id, title, content, created_at FROM documents WHERE id = ?", id)

	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// ListRecent returns up to limit documents, newest first.
func (s *documentStore) ListRecent(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id, title FROM documents ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	items := make([]domain.DocumentSummary, 0, min(limit, preallocCap))
	for rows.Next() {
		var item domain.DocumentSummary
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return items, nil
}

// Count returns the number of stored documents.
func (s *documentStore) Count(ctx context.Context) (int, error) {
	return s.store.count(ctx, "SELECT COUNT(*) FROM documents")
}

func (s *Store) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}

// ==================== Search Engine ====================

// searchEngine implements driven.SearchEngine over documents_fts.
type searchEngine struct {
	store *Store
}

var _ driven.SearchEngine = (*searchEngine)(nil)

// Search runs an FTS5 MATCH query. The query must already be sanitised.
// Scores are negated bm25 ranks so that higher means more relevant;
// equal ranks are ordered by ascending document id.
func (e *searchEngine) Search(ctx context.Context, query string, limit int) ([]driven.SearchHit, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []driven.SearchHit{}, nil
	}

	rows, err := e.store.db.QueryContext(ctx, `
		SELECT rowid, rank FROM documents_fts
		WHERE documents_fts MATCH ?
		ORDER BY rank, rowid
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	hits := make([]driven.SearchHit, 0, min(limit, preallocCap))
	for rows.Next() {
		var hit driven.SearchHit
		var rank float64
		if err := rows.Scan(&hit.DocumentID, &rank); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hit.Score = -rank
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}

	return hits, nil
}

// CheckIndex verifies every document has exactly one index entry.
func (e *searchEngine) CheckIndex(ctx context.Context) error {
	// rank=1 compares the index against the content table as well.
	_, err := e.store.db.ExecContext(ctx,
		"INSERT INTO documents_fts (documents_fts, rank) VALUES ('integrity-check', 1)")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexInconsistent, err)
	}

	docs, err := e.store.count(ctx, "SELECT COUNT(*) FROM documents")
	if err != nil {
		return err
	}
	// The docsize shadow table holds one row per index entry.
	entries, err := e.store.count(ctx, "SELECT COUNT(*) FROM documents_fts_docsize")
	if err != nil {
		return err
	}
	if docs != entries {
		return fmt.Errorf("%w: %d documents, %d index entries", domain.ErrIndexInconsistent, docs, entries)
	}
	return nil
}

// RebuildIndex re-derives every index entry from the documents table.
func (e *searchEngine) RebuildIndex(ctx context.Context) error {
	if _, err := e.store.db.ExecContext(ctx,
		"INSERT INTO documents_fts (documents_fts) VALUES ('rebuild')"); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	return nil
}
