package driven

// ArtifactKind names one pipeline stage's persisted output. Each
// processed document leaves a JSON artifact per stage so a stage can
// be re-run or inspected without repeating the ones before it.
type ArtifactKind string

const (
	// ArtifactCleaned is the normalised full text and paragraphs.
	ArtifactCleaned ArtifactKind = "cleaned"

	// ArtifactChunks is the chunked submission text.
	ArtifactChunks ArtifactKind = "chunks"

	// ArtifactChunkEmbeddings is the per-chunk embedding matrix.
	ArtifactChunkEmbeddings ArtifactKind = "chunk_embs"

	// ArtifactRubric is the cleaned rubric with expanded keywords.
	ArtifactRubric ArtifactKind = "rubric"

	// ArtifactRubricToChunk is the dimension-to-chunk retrieval map.
	ArtifactRubricToChunk ArtifactKind = "rubric2chunk"

	// ArtifactRubricToText is the retrieval map resolved to chunk text.
	ArtifactRubricToText ArtifactKind = "rubric2text"

	// ArtifactSections is the per-submission report section summary.
	ArtifactSections ArtifactKind = "sections"

	// ArtifactStyleNotes is the learned per-band marking style.
	ArtifactStyleNotes ArtifactKind = "style_notes"
)

// ArtifactStore persists per-stage pipeline outputs as JSON
// documents, keyed by stage and document identity.
type ArtifactStore interface {
	// Save writes one artifact, replacing any previous version.
	Save(kind ArtifactKind, key string, value any) error

	// Load reads one artifact into value. Returns domain.ErrNotFound
	// when the artifact has never been saved.
	Load(kind ArtifactKind, key string, value any) error

	// Exists reports whether an artifact has been saved.
	Exists(kind ArtifactKind, key string) bool

	// Path returns the artifact's storage location for display.
	Path(kind ArtifactKind, key string) string
}
