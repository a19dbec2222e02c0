package summarize

import (
	"math"
	"testing"
)

func TestTextRank_IsolatedSentencesRankLowest(t *testing.T) {
	sents := []string{
		"Cats chase mice around the barn.",
		"Zebras graze quietly.",
		"Barn cats chase mice at dusk.",
		"Mice fear the barn cats.",
	}
	scores, err := TextRank{}.Rank(sents)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	for i, s := range scores {
		if i != 1 && s <= scores[1] {
			t.Fatalf("expected connected sentence %d to outrank isolated one: %v", i, scores)
		}
	}
}

func TestTextRank_Empty(t *testing.T) {
	if _, err := (TextRank{}).Rank(nil); err == nil {
		t.Fatalf("expected error for no sentences")
	}
}

func counted(words ...string) (map[string]int, int) {
	c := make(map[string]int, len(words))
	for _, w := range words {
		c[w]++
	}
	return c, len(words)
}

func TestEdgeWeight(t *testing.T) {
	a, na := counted("a")
	b, nb := counted("b")
	if w := edgeWeight(a, na, b, nb); w != 0 {
		t.Fatalf("expected 0 for disjoint, got %v", w)
	}
	if w := edgeWeight(a, na, a, na); w != 1 {
		t.Fatalf("expected raw count for single-word sentences, got %v", w)
	}
	empty, ne := counted()
	if w := edgeWeight(empty, ne, a, na); w != 0 {
		t.Fatalf("expected 0 for empty sentence, got %v", w)
	}
	x, nx := counted("tea", "tea", "leaf")
	y, ny := counted("tea", "cup", "hot", "tea", "pot")
	want := 4 / (math.Log(3) + math.Log(5))
	if w := edgeWeight(x, nx, y, ny); math.Abs(w-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, w)
	}
	if w := edgeWeight(y, ny, x, nx); math.Abs(w-want) > 1e-12 {
		t.Fatalf("expected symmetric weight %v, got %v", want, w)
	}
}
