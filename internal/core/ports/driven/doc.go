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
//   - Loader: Produces the full raw text of a file
//   - ChunkParser: Turns a file into chunk records
//   - VectorStore: Chunk and embedding persistence with similarity search
//   - QuestionStore: Unanswered question log
//   - EmbeddingService: Generates vector embeddings
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AnswerGenerator: Streams answers from search context. Without it, ask is disabled.
//   - AIConfigValidator: Credential checks used by the settings command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
