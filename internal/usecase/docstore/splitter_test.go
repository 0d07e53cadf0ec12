package docstore

import (
	"strings"
	"testing"
)

func TestSplitEmpty(t *testing.T) {
	s := NewSplitter(1000, 200)
	if got := s.Split(""); got != nil {
		t.Errorf("empty text: want nil, got %v", got)
	}
	if got := s.Split("   \n\t  "); got != nil {
		t.Errorf("whitespace text: want nil, got %v", got)
	}
}

func TestSplitShortTextIsOneChunk(t *testing.T) {
	s := NewSplitter(1000, 200)
	got := s.Split("just a short note")
	if len(got) != 1 || got[0] != "just a short note" {
		t.Errorf("got %v", got)
	}
}

func TestSplitOverlappingChunks(t *testing.T) {
	s := NewSplitter(100, 20)
	words := strings.Repeat("alpha beta gamma delta ", 30) // ~690 runes
	got := s.Split(words)

	if len(got) < 2 {
		t.Fatalf("want multiple chunks, got %d", len(got))
	}
	for i, c := range got {
		if len([]rune(c)) > 100 {
			t.Errorf("chunk %d exceeds size: %d runes", i, len([]rune(c)))
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk %d not trimmed: %q", i, c)
		}
	}
	// Consecutive chunks share text: the tail of one reappears at the head
	// of the next.
	for i := 1; i < len(got); i++ {
		head := got[i]
		if len(head) > 20 {
			head = head[:20]
		}
		if !strings.Contains(got[i-1], strings.Fields(head)[0]) {
			t.Errorf("chunks %d and %d do not overlap", i-1, i)
		}
	}
}

func TestSplitPrefersWordBoundaries(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("boundary ", 40)
	for i, c := range s.Split(text) {
		if strings.HasSuffix(c, "bound") || strings.HasSuffix(c, "boundar") {
			t.Errorf("chunk %d cut mid-word: %q", i, c)
		}
	}
}

func TestSplitClampsDegenerateOverlap(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 30)
	for _, tc := range []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"negative overlap", 100, -5},
		{"zero size", 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := NewSplitter(tc.size, tc.overlap).Split(text)
			if len(got) == 0 {
				t.Fatal("want chunks")
			}
			// Termination bound: every chunk advances by at least one rune.
			if len(got) > len([]rune(text)) {
				t.Errorf("split did not advance: %d chunks for %d runes", len(got), len([]rune(text)))
			}
		})
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	s := NewSplitter(120, 30)
	text := strings.Repeat("Day 1 Checklist. Company Values. ", 50)
	first := s.Split(text)
	second := s.Split(text)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs", i)
		}
	}
}
