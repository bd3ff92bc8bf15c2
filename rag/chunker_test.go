package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyText(t *testing.T) {
	assert.Nil(t, NewChunker().Chunk("   \n  ", "a.txt", "txt", "u1"))
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	chunks := NewChunker().Chunk("A short document.", "a.txt", "txt", "u1")

	require.Len(t, chunks, 1)
	assert.Equal(t, "A short document.", chunks[0].Text)
	assert.Equal(t, "u1", chunks[0].UserID)
	assert.Equal(t, "a.txt", chunks[0].Filename)
	assert.Equal(t, "txt", chunks[0].FileType)
	assert.Equal(t, 0, chunks[0].WindowIndex)
	assert.NotEmpty(t, chunks[0].ChunkID)
}

func TestChunkLongTextOverlaps(t *testing.T) {
	paragraph := strings.Repeat("Some sentences about Go concurrency patterns. ", 20)
	text := paragraph + "\n\n" + paragraph + "\n\n" + paragraph

	chunks := NewChunker().Chunk(text, "long.md", "md", "u1")
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), chunkSize)
		assert.Equal(t, i, c.WindowIndex)
		assert.NotEmpty(t, c.Text)
	}

	// Consecutive windows share text.
	first := []rune(chunks[0].Text)
	tail := string(first[len(first)-50:])
	assert.Contains(t, chunks[1].Text, strings.TrimSpace(tail))
}

func TestChunkPrefersParagraphBreaks(t *testing.T) {
	first := strings.Repeat("a", 900)
	second := strings.Repeat("b", 500)
	text := first + "\n\n" + second

	chunks := NewChunker().Chunk(text, "p.txt", "txt", "u1")
	require.Greater(t, len(chunks), 1)

	// The first window ends at the paragraph break, not mid-run.
	assert.Equal(t, first, chunks[0].Text)
}

func TestChunkIDsAreStable(t *testing.T) {
	a := NewChunker().Chunk("Same content.", "a.txt", "txt", "u1")
	b := NewChunker().Chunk("Same content.", "a.txt", "txt", "u1")
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].ChunkID, b[0].ChunkID)

	// Different owner yields a different identity.
	c := NewChunker().Chunk("Same content.", "a.txt", "txt", "u2")
	assert.NotEqual(t, a[0].ChunkID, c[0].ChunkID)
}
