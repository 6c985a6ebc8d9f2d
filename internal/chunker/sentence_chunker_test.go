package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-assistant/internal/domain"
)

func doc(content string) domain.Document {
	return domain.Document{ID: "doc1", Path: "doc1.txt", Content: content}
}

func TestChunkEmptyDocument(t *testing.T) {
	c := NewSentenceChunker(512, 50)

	chunks, err := c.Chunk(doc(""))
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = c.Chunk(doc("   \n\t  "))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkSingleSentence(t *testing.T) {
	c := NewSentenceChunker(512, 50)
	chunks, err := c.Chunk(doc("The library opens at eight in the morning."))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "The library opens at eight in the morning.", chunks[0].Text)
	assert.Equal(t, "doc1:0", chunks[0].ChunkID)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestChunkRespectsMaxSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Sentence number with a handful of words inside it. ")
	}
	c := NewSentenceChunker(200, 30)
	chunks, err := c.Chunk(doc(b.String()))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 200, "chunk %d exceeds max size", ch.Index)
		assert.NotEmpty(t, ch.Text)
	}
}

func TestChunkCoversAllSentences(t *testing.T) {
	sentences := []string{
		"Admission requires a completed application form.",
		"The hostel curfew is ten in the evening.",
		"Library fines are charged per day.",
		"Attendance below the threshold bars exam entry.",
		"The cafeteria serves breakfast until ten.",
	}
	c := NewSentenceChunker(100, 20)
	chunks, err := c.Chunk(doc(strings.Join(sentences, " ")))
	require.NoError(t, err)

	joined := ""
	for _, ch := range chunks {
		joined += ch.Text + " "
	}
	for _, s := range sentences {
		assert.Contains(t, joined, s)
	}
}

func TestChunkKeepsTrailingTextWithoutTerminator(t *testing.T) {
	c := NewSentenceChunker(512, 50)
	chunks, err := c.Chunk(doc("First sentence here. trailing fragment without a period"))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	all := ""
	for _, ch := range chunks {
		all += ch.Text + " "
	}
	assert.Contains(t, all, "trailing fragment without a period")
}

func TestChunkOverlapCarriesContext(t *testing.T) {
	sentences := []string{
		"Alpha is the first topic discussed here.",
		"Beta follows immediately after alpha ends.",
		"Gamma continues where beta left off today.",
		"Delta closes out the series of topics.",
	}
	c := NewSentenceChunker(90, 45)
	chunks, err := c.Chunk(doc(strings.Join(sentences, " ")))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Each window after the first starts with a sentence already seen in
	// the previous window.
	for i := 1; i < len(chunks); i++ {
		first := strings.SplitN(chunks[i].Text, ".", 2)[0]
		assert.Contains(t, chunks[i-1].Text, first)
	}
}

func TestChunkDeterministic(t *testing.T) {
	content := "One sentence. Another sentence. A third sentence here. And a fourth for good measure."
	c := NewSentenceChunker(60, 15)
	a, err := c.Chunk(doc(content))
	require.NoError(t, err)
	b, err := c.Chunk(doc(content))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestChunkHardSplitsOversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 200) // one 1000-char "sentence", no terminator
	c := NewSentenceChunker(100, 20)
	chunks, err := c.Chunk(doc(long))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 100)
		assert.NotEmpty(t, ch.Text)
	}
}
