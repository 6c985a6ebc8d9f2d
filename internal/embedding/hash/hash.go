package hash

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// Embedder is a local, deterministic feature-hashing embedder. Word tokens
// (and their bigrams) are hashed into a fixed number of buckets with a
// signed contribution, then the vector is L2-normalized. The embedding is a
// pure function of the text and the configured dimension, so an index built
// with it can be reloaded and queried across process restarts.
type Embedder struct {
	dimension    int
	tokenPattern *regexp.Regexp
}

func NewEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = 256
	}
	return &Embedder{
		dimension:    dimension,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
	}
}

func (e *Embedder) Dimension() int { return e.dimension }

func (e *Embedder) ModelInfo() string {
	return fmt.Sprintf("hash-v1-%d", e.dimension)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	tokens := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		e.accumulate(vec, tok)
		if i > 0 {
			e.accumulate(vec, tokens[i-1]+" "+tok)
		}
	}
	l2normalize(vec)
	return vec, nil
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *Embedder) accumulate(vec []float32, feature string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dimension))
	if sum&(1<<63) != 0 {
		vec[idx] -= 1
	} else {
		vec[idx] += 1
	}
}

func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
