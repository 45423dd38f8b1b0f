// Package atlas implements the vector and question stores on MongoDB Atlas.
//
// Chunks live in one collection with a unique index on the identity key and
// an Atlas Vector Search index over the "embedding" field. Similarity queries
// run as a $vectorSearch aggregation followed by a score threshold $match.
// The vector index itself is created in Atlas; this package only ensures the
// regular indexes.
package atlas
