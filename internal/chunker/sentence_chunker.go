package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"campus-assistant/internal/domain"
)

// SentenceChunker splits text on sentence boundaries and packs sentences
// into windows of at most maxChunkSize characters. Consecutive windows from
// the same document overlap by up to overlap characters so local context
// survives a chunk boundary.
type SentenceChunker struct {
	maxChunkSize int
	overlap      int
	splitter     *regexp.Regexp
}

func NewSentenceChunker(maxChunkSize, overlap int) *SentenceChunker {
	if maxChunkSize <= 0 {
		maxChunkSize = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}
	return &SentenceChunker{
		maxChunkSize: maxChunkSize,
		overlap:      overlap,
		splitter:     regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

type sentence struct {
	text   string
	offset int
}

func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	units := c.sentences(document.Content)
	if len(units) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	i := 0
	idx := 0
	for i < len(units) {
		// Pack sentences until the window budget is exhausted.
		size := runeLen(units[i].text)
		j := i + 1
		for j < len(units) {
			next := runeLen(units[j].text)
			if size+1+next > c.maxChunkSize {
				break
			}
			size += 1 + next
			j++
		}
		parts := make([]string, 0, j-i)
		for k := i; k < j; k++ {
			parts = append(parts, units[k].text)
		}
		text := strings.Join(parts, " ")
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       text,
			Index:      idx,
			Offset:     units[i].offset,
		})
		idx++
		if j >= len(units) {
			break
		}
		// Start the next window on trailing sentences of this one whose
		// combined length fits the overlap budget.
		back := j
		covered := 0
		for back > i+1 {
			l := runeLen(units[back-1].text)
			if covered+l > c.overlap {
				break
			}
			covered += l
			back--
		}
		i = back
	}
	return chunks, nil
}

// sentences splits the content into sentence units with their character
// offsets. Text after the final terminator is kept as a trailing unit so no
// part of the document is silently dropped, and any unit longer than the
// window budget is hard-split into rune windows.
func (c *SentenceChunker) sentences(content string) []sentence {
	matches := c.splitter.FindAllStringIndex(content, -1)

	var raw []sentence
	byteToRune := func(b int) int { return len([]rune(content[:b])) }
	last := 0
	for _, m := range matches {
		raw = append(raw, sentence{text: content[m[0]:m[1]], offset: byteToRune(m[0])})
		last = m[1]
	}
	if tail := content[last:]; strings.TrimSpace(tail) != "" {
		raw = append(raw, sentence{text: tail, offset: byteToRune(last)})
	}
	if len(raw) == 0 {
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			return nil
		}
		raw = []sentence{{text: content, offset: 0}}
	}

	var units []sentence
	for _, s := range raw {
		lead := leadingSpace(s.text)
		text := strings.TrimSpace(s.text)
		if text == "" {
			continue
		}
		offset := s.offset + lead
		sr := []rune(text)
		if len(sr) <= c.maxChunkSize {
			units = append(units, sentence{text: text, offset: offset})
			continue
		}
		// Oversized sentence: fixed rune windows with overlap.
		step := c.maxChunkSize - c.overlap
		if step <= 0 {
			step = c.maxChunkSize
		}
		for start := 0; start < len(sr); start += step {
			end := start + c.maxChunkSize
			if end > len(sr) {
				end = len(sr)
			}
			part := strings.TrimSpace(string(sr[start:end]))
			if part != "" {
				units = append(units, sentence{text: part, offset: offset + start})
			}
			if end == len(sr) {
				break
			}
		}
	}
	return units
}

func leadingSpace(s string) int {
	n := 0
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			n++
			continue
		}
		break
	}
	return n
}

func runeLen(s string) int { return len([]rune(s)) }
