package dataset

import "math/rand"

// Span is a half-open index range [Start, End) into a dataset.
type Span struct {
	Start int
	End   int
}

// Len returns the number of examples covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Shuffle permutes examples in place.
func Shuffle(rng *rand.Rand, examples []Example) {
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}

// Partition splits n examples into consecutive spans of size. When n is not a
// multiple of size the final span holds the remainder.
func Partition(n, size int) []Span {
	if n <= 0 || size <= 0 {
		return nil
	}
	spans := make([]Span, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}
