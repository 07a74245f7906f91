package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type AskResponse struct {
	Answer string        `json:"answer"`
	Chunks []ScoredChunk `json:"chunks,omitempty"`
}

const (
	TypeWebsocketAsk   = "ask"
	TypeWebsocketChunk = "chunk"
	TypeWebsocketDone  = "done"
	TypeWebsocketError = "error"
)

// WebsocketMessage is the envelope for both directions of the ask stream.
type WebsocketMessage struct {
	Type    string `json:"type"`
	Payload string `json:"payload,omitempty"`
}

// StreamHandler receives completion deltas as they arrive.
type StreamHandler func(delta string)
