package types

// Chunk is a bounded substring of the extracted document text. Content is an
// exact substring starting at Start, so the original text is reconstructible
// from offsets; consecutive chunks overlap by up to the configured overlap.
type Chunk struct {
	Index   int    `json:"index"`
	Start   int    `json:"start"`
	Content string `json:"content"`
}

// ScoredChunk is a retrieval hit: a stored chunk plus its similarity score
// (1 = identical direction under cosine).
type ScoredChunk struct {
	Chunk
	Fingerprint string  `json:"fingerprint"`
	Score       float32 `json:"score"`
}

// ValidatedDocument is the validator's accept result.
type ValidatedDocument struct {
	Text      string
	PageCount int
	WordCount int
	Message   string
}

// IngestResult summarizes one run of the ingestion pipeline.
type IngestResult struct {
	Fingerprint    string `json:"fingerprint"`
	Title          string `json:"title"`
	PageCount      int    `json:"page_count"`
	WordCount      int    `json:"word_count"`
	ChunkCount     int    `json:"chunk_count"`
	AlreadyIndexed bool   `json:"already_indexed"`
}

// DocumentRecord is the ingest audit record persisted after a document's
// vectors are fully stored. The vector store stays the source of truth for
// is-indexed checks; records only back the documents listing.
type DocumentRecord struct {
	Fingerprint string `bson:"_id" json:"fingerprint"`
	Title       string `bson:"title" json:"title"`
	PageCount   int    `bson:"page_count" json:"page_count"`
	WordCount   int    `bson:"word_count" json:"word_count"`
	ChunkCount  int    `bson:"chunk_count" json:"chunk_count"`
	IndexedAt   int64  `bson:"indexed_at" json:"indexed_at"`
}

// AskResult is the answer to one question plus the chunks it was grounded on.
type AskResult struct {
	Answer string        `json:"answer"`
	Chunks []ScoredChunk `json:"chunks"`
}

// DocumentServiceConfig contains limits for PDF validation.
type DocumentServiceConfig struct {
	MaxPages int
	MaxWords int
}

// SplitterConfig configures the text splitter.
type SplitterConfig struct {
	ChunkSize    int
	ChunkOverlap int
}
