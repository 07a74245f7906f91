package service

import (
	"strings"
	"unicode/utf8"

	"github.com/KhurramShams/docuchat-be/types"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// Splitter cuts text into overlapping chunks of at most chunkSize bytes.
// Cut points prefer, in order: paragraph break, line break, sentence
// terminator, space, and finally a hard character cut. Chunks are exact
// substrings of the input; nothing is trimmed or rewritten.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

func NewSplitter(config types.SplitterConfig) *Splitter {
	size := config.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	overlap := config.ChunkOverlap
	if overlap < 0 {
		overlap = defaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Splitter{
		chunkSize:    size,
		chunkOverlap: overlap,
	}
}

// Split is a pure function of the text and the configured sizes. Empty
// input yields no chunks; input shorter than the chunk size yields one.
func (s *Splitter) Split(text string) []types.Chunk {
	if text == "" {
		return nil
	}

	var chunks []types.Chunk
	pos := 0
	for pos < len(text) {
		end := pos + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, types.Chunk{
				Index:   len(chunks),
				Start:   pos,
				Content: text[pos:],
			})
			break
		}

		cut := s.cutPoint(text, pos, end)
		chunks = append(chunks, types.Chunk{
			Index:   len(chunks),
			Start:   pos,
			Content: text[pos:cut],
		})

		next := cut - s.chunkOverlap
		for next > pos && !utf8.RuneStart(text[next]) {
			next++
		}
		if next <= pos {
			// Overlap would stall the scan; advance without it.
			next = cut
		}
		pos = next
	}
	return chunks
}

// cutPoint returns the position in (start, limit] to end the current chunk,
// choosing the highest-priority separator present in the window. Separators
// stay attached to the chunk they terminate.
func (s *Splitter) cutPoint(text string, start, limit int) int {
	window := text[start:limit]
	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return start + i + 2
	}
	if i := strings.LastIndexByte(window, '\n'); i > 0 {
		return start + i + 1
	}
	if i := strings.LastIndexAny(window, ".!?"); i > 0 {
		return start + i + 1
	}
	if i := strings.LastIndexByte(window, ' '); i > 0 {
		return start + i + 1
	}
	// Hard cut: back up to a rune boundary so the chunk stays valid UTF-8.
	cut := limit
	for cut > start && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut > start {
		return cut
	}
	return limit
}
