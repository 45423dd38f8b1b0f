// Package sqlite provides a local, single-file implementation of the
// vector and question stores.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Embeddings are kept as little-endian float32 blobs and
// similarity search is an exact cosine scan over the chunks table.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.procedures/data/procedures.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite's WAL mode
// with a busy timeout for concurrent writers.
package sqlite
