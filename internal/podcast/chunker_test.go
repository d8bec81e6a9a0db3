package podcast

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// normalize collapses whitespace the way the chunker's concatenation
// invariant is stated: joining the chunks with single spaces must
// reproduce the whitespace-normalized input.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func assertChunkInvariants(t *testing.T, text string, maxLen int, chunks []string) {
	t.Helper()
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), maxLen, "chunk %d over limit", i)
		assert.NotEmpty(t, c)
	}
	assert.Equal(t, normalize(text), normalize(strings.Join(chunks, " ")))
}

func TestChunkShortTextIsSingleChunk(t *testing.T) {
	chunks := Chunk("One short sentence.", 100)
	assert.Equal(t, []string{"One short sentence."}, chunks)
}

func TestChunkPrefersSentenceBoundaries(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."
	chunks := Chunk(text, 45)

	assert.GreaterOrEqual(t, len(chunks), 2)
	assertChunkInvariants(t, text, 45, chunks)
	for _, c := range chunks {
		assert.True(t, strings.HasSuffix(c, "."), "chunk should end at a sentence boundary: %q", c)
	}
}

func TestChunkLongInputProducesManyOrderedChunks(t *testing.T) {
	sentence := "The mitochondria is the powerhouse of the cell. "
	text := strings.TrimSpace(strings.Repeat(sentence, 170)) // ~8000 characters

	chunks := Chunk(text, 3000)

	assert.GreaterOrEqual(t, len(chunks), 3)
	assertChunkInvariants(t, text, 3000, chunks)
}

func TestChunkOversizedSentenceFallsBackToWords(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 40)) + "."
	chunks := Chunk(text, 60)

	assert.Greater(t, len(chunks), 1)
	assertChunkInvariants(t, text, 60, chunks)
}

func TestChunkHardSplitsOversizedWord(t *testing.T) {
	word := strings.Repeat("x", 25)
	chunks := Chunk(word, 10)

	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, chunks)
}

func TestChunkCountsRunesNotBytes(t *testing.T) {
	// Each rune below is multi-byte; a byte-based split would cut
	// characters apart.
	word := strings.Repeat("ü", 12)
	chunks := Chunk(word, 5)

	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 5)
	}
	assert.Equal(t, word, strings.Join(chunks, ""))
}

func TestChunkIsPure(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("Repeatable sentences are repeatable. ", 50))
	first := Chunk(text, 120)
	second := Chunk(text, 120)
	assert.Equal(t, first, second)
}

func TestChunkEmptyInput(t *testing.T) {
	assert.Nil(t, Chunk("", 100))
	assert.Nil(t, Chunk("   ", 100))
}
