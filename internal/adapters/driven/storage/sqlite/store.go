package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/similarity"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// DatabaseFile is the file name created inside the data directory.
const DatabaseFile = "procedures.db"

// Store is a SQLite database that provides the vector and question
// store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.procedures/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".procedures", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

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

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// QuestionStore returns a QuestionStore interface backed by this store.
func (s *Store) QuestionStore() driven.QuestionStore {
	return &questionStore{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Store upserts a chunk keyed by its identity key. The first insertion
// position is kept so FetchAllChunks stays in document order.
func (v *vectorStore) Store(ctx context.Context, embedding []float32, chunk domain.Chunk) error {
	now := v.store.now().UTC()
	_, err := v.store.db.ExecContext(ctx, `
		INSERT INTO chunks (unique_chunk_identifier, filename, heading, plain_text, formatted_text, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(unique_chunk_identifier) DO UPDATE SET
			filename = excluded.filename,
			heading = excluded.heading,
			plain_text = excluded.plain_text,
			formatted_text = excluded.formatted_text,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, chunk.IdentityKey(), chunk.Source, chunk.Heading, chunk.PlainText, chunk.FormattedText,
		float32SliceToBytes(embedding), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", chunk.IdentityKey(), domain.ErrDuplicateChunk)
		}
		return fmt.Errorf("storing chunk: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

// Search scans every stored embedding and ranks by cosine similarity.
func (v *vectorStore) Search(ctx context.Context, query []float32, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	rows, err := v.store.db.QueryContext(ctx, `
		SELECT filename, heading, plain_text, formatted_text, embedding
		FROM chunks WHERE embedding IS NOT NULL ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	var candidates []similarity.Candidate
	for rows.Next() {
		var c similarity.Candidate
		var blob []byte
		if err := rows.Scan(&c.Chunk.Source, &c.Chunk.Heading, &c.Chunk.PlainText, &c.Chunk.FormattedText, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = bytesToFloat32Slice(blob)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return similarity.Rank(query, candidates, opts), nil
}

// FetchAllChunks returns the chunks of a source in insertion order.
func (v *vectorStore) FetchAllChunks(ctx context.Context, source string) ([]domain.Chunk, error) {
	rows, err := v.store.db.QueryContext(ctx, `
		SELECT filename, heading, plain_text, formatted_text
		FROM chunks WHERE filename = ? ORDER BY id
	`, source)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.Source, &c.Heading, &c.PlainText, &c.FormattedText); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// Exists reports whether a chunk with the identity key is stored.
func (v *vectorStore) Exists(ctx context.Context, identityKey string) (bool, error) {
	var one int
	err := v.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM chunks WHERE unique_chunk_identifier = ?", identityKey).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking chunk: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return true, nil
}

// ListSources returns the distinct filenames, sorted.
func (v *vectorStore) ListSources(ctx context.Context) ([]string, error) {
	rows, err := v.store.db.QueryContext(ctx, "SELECT DISTINCT filename FROM chunks ORDER BY filename")
	if err != nil {
		return nil, fmt.Errorf("listing sources: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, name)
	}
	return sources, rows.Err()
}

// Close closes the underlying database.
func (v *vectorStore) Close() error {
	return v.store.Close()
}

// ==================== Question Store ====================

// questionStore implements driven.QuestionStore.
type questionStore struct {
	store *Store
}

var _ driven.QuestionStore = (*questionStore)(nil)

// Record inserts the question under a random UUID.
func (q *questionStore) Record(ctx context.Context, question string) (domain.UnansweredQuestion, error) {
	rec := domain.UnansweredQuestion{
		ID:        uuid.NewString(),
		Question:  question,
		Timestamp: q.store.now().UTC(),
	}
	_, err := q.store.db.ExecContext(ctx,
		"INSERT INTO unanswered_questions (id, question, timestamp) VALUES (?, ?, ?)",
		rec.ID, rec.Question, rec.Timestamp)
	if err != nil {
		return domain.UnansweredQuestion{}, fmt.Errorf("recording question: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return rec, nil
}

// List returns every question, newest first.
func (q *questionStore) List(ctx context.Context) ([]domain.UnansweredQuestion, error) {
	rows, err := q.store.db.QueryContext(ctx, `
		SELECT id, question, timestamp FROM unanswered_questions
		ORDER BY timestamp DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer rows.Close()

	var list []domain.UnansweredQuestion
	for rows.Next() {
		var rec domain.UnansweredQuestion
		var ts sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.Question, &ts); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		if ts.Valid {
			rec.Timestamp = ts.Time.UTC()
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Delete removes a question by ID.
func (q *questionStore) Delete(ctx context.Context, id string) error {
	res, err := q.store.db.ExecContext(ctx, "DELETE FROM unanswered_questions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting question: %v: %w", err, domain.ErrStoreUnavailable)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helpers ====================

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
