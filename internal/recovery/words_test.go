package recovery

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	t.Run("returns_six_distinct_words", func(t *testing.T) {
		words, err := Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(words) != PhraseLength {
			t.Fatalf("expected %d words, got %d", PhraseLength, len(words))
		}

		seen := make(map[string]bool)
		for _, w := range words {
			if w == "" {
				t.Error("expected non-empty word")
			}
			if seen[w] {
				t.Errorf("duplicate word %q in phrase", w)
			}
			seen[w] = true
		}
	})

	t.Run("words_come_from_pool", func(t *testing.T) {
		pool := make(map[string]bool, len(wordList))
		for _, w := range wordList {
			pool[w] = true
		}

		words, err := Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, w := range words {
			if !pool[w] {
				t.Errorf("word %q not in the word list", w)
			}
		}
	})
}

func TestCanonical(t *testing.T) {
	words := []string{"Apple", " banana", "carrot ", "DIAMOND", "elephant", "forest"}
	got := Canonical(words)
	want := "apple banana carrot diamond elephant forest"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if strings.Contains(got, "  ") {
		t.Error("canonical phrase must use single spaces")
	}
}
