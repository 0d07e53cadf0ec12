package docstore

import (
	"strings"
	"unicode"
)

// Splitter cuts document text into overlapping chunks of a target rune size.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a splitter. Overlap must be smaller than size; values
// that would stall the split are clamped so Split always advances.
func NewSplitter(size, overlap int) Splitter {
	if size < 1 {
		size = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return Splitter{size: size, overlap: overlap}
}

// Split returns the chunks of text in document order. Chunk boundaries snap
// back to the nearest whitespace near the target size so words are not cut
// mid-way. Whitespace-only input yields no chunks.
func (s Splitter) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= s.size {
		return []string{string(runes)}
	}

	step := s.size - s.overlap
	snap := step / 2
	if snap > 100 {
		snap = 100
	}

	var chunks []string
	start := 0
	for {
		end := start + s.size
		if end >= len(runes) {
			if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
				chunks = append(chunks, piece)
			}
			return chunks
		}

		cut := end
		for i := end; i > end-snap && i > start+1; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(runes[start:cut])))

		start = cut - s.overlap
		if start < 0 {
			start = 0
		}
	}
}
