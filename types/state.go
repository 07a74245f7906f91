package types

// PipelineState tracks one document's progress through the ingestion
// pipeline. Rejected is terminal for the document; AnsweringReady is the
// steady state that accepts repeated questions until a new upload resets
// the pipeline.
type PipelineState string

const (
	StateIdle             PipelineState = "idle"
	StateUploaded         PipelineState = "uploaded"
	StateValidating       PipelineState = "validating"
	StateRejected         PipelineState = "rejected"
	StateFingerprintCheck PipelineState = "fingerprint_check"
	StateAlreadyIndexed   PipelineState = "already_indexed"
	StateChunking         PipelineState = "chunking"
	StateEmbedding        PipelineState = "embedding"
	StateIndexed          PipelineState = "indexed"
	StateAnsweringReady   PipelineState = "answering_ready"
)
