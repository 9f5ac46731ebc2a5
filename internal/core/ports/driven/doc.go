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
//   - TextExtractor / ExtractorRegistry: Pulls plain text out of uploaded files
//   - DocumentStore: Document and chunk persistence
//   - ArtifactStore: Per-stage pipeline output persistence
//   - MarkingStore: Marking sheet persistence
//   - ConfigStore: Application configuration
//   - EmbeddingService: Generates vector embeddings
//   - RubricIndex: Similarity search over rubric dimension embeddings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, keyword expansion
//     and guided scoring are disabled; retrieval mapping still works.
//   - SchedulerStore: Background task state. Without it, scheduled
//     reprocessing is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
