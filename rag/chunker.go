package rag

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	chunkSize    = 1000 // runes per chunk
	chunkOverlap = 200  // runes shared between consecutive chunks
)

// Chunker splits document text into bounded, overlapping windows. Breaks
// prefer paragraph and sentence boundaries over hard cuts so a chunk rarely
// starts mid-word.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker() *Chunker {
	return &Chunker{size: chunkSize, overlap: chunkOverlap}
}

// Chunk splits text uploaded by userID from filename into ChunkModels.
// Returns nil for empty input.
func (c *Chunker) Chunk(text, filename, fileType, userID string) []ChunkModel {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var out []ChunkModel

	window := 0
	for start := 0; start < len(runes); {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.breakNear(runes, end)
		}

		body := strings.TrimSpace(string(runes[start:end]))
		if body != "" {
			id := sha1.Sum([]byte(fmt.Sprintf("%s:%s:%d:%s", userID, filename, window, body)))
			out = append(out, ChunkModel{
				ChunkID:     hex.EncodeToString(id[:]),
				UserID:      userID,
				Filename:    filename,
				FileType:    fileType,
				Text:        body,
				WindowIndex: window,
			})
			window++
		}

		if end == len(runes) {
			break
		}
		start = end - c.overlap
	}

	return out
}

// breakNear walks backward from pos looking for a natural break point. The
// search is capped at the overlap width; beyond that a hard cut is better
// than losing a whole window of text.
func (c *Chunker) breakNear(runes []rune, pos int) int {
	limit := pos - c.overlap
	if limit < 0 {
		limit = 0
	}

	// Paragraph break first, then newline, then space.
	for _, sep := range []string{"\n\n", "\n", " "} {
		sepRunes := []rune(sep)
		for i := pos; i-len(sepRunes) >= limit && i-len(sepRunes) >= 0; i-- {
			if string(runes[i-len(sepRunes):i]) == sep {
				return i
			}
		}
	}
	return pos
}
