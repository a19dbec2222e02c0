package summarize

import (
	"errors"
	"math"
	"regexp"

	"golang.org/x/text/cases"
)

const (
	defaultDamping = 0.85
	defaultEpsilon = 1e-4
	maxIterations  = 1000
)

var wordRe = regexp.MustCompile(`[\p{L}\p{M}]+(?:['’-][\p{L}\p{M}]+)*`)

// TextRank scores sentences by PageRank over a graph whose edge weights are
// the number of shared words normalized by ln|a| + ln|b|. Self edges are not
// counted. Sentences with no edges spread their weight uniformly.
type TextRank struct {
	// Damping defaults to 0.85.
	Damping float64
	// Epsilon is the L2 convergence threshold; defaults to 1e-4.
	Epsilon float64
}

func (t TextRank) Rank(sents []string) ([]float64, error) {
	n := len(sents)
	if n == 0 {
		return nil, errors.New("no sentences to rank")
	}
	d := t.Damping
	if d <= 0 || d >= 1 {
		d = defaultDamping
	}
	eps := t.Epsilon
	if eps <= 0 {
		eps = defaultEpsilon
	}

	fold := cases.Fold()
	counts := make([]map[string]int, n)
	lengths := make([]int, n)
	for i, s := range sents {
		ws := wordRe.FindAllString(fold.String(s), -1)
		lengths[i] = len(ws)
		c := make(map[string]int, len(ws))
		for _, w := range ws {
			c[w]++
		}
		counts[i] = c
	}

	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := edgeWeight(counts[i], lengths[i], counts[j], lengths[j])
			w[i][j], w[j][i] = r, r
		}
	}
	for i := range w {
		var sum float64
		for _, v := range w[i] {
			sum += v
		}
		for j := range w[i] {
			if sum == 0 {
				w[i][j] = 1 / float64(n)
			} else {
				w[i][j] /= sum
			}
		}
	}

	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		for j := range next {
			next[j] = (1 - d) / float64(n)
		}
		for i := 0; i < n; i++ {
			pi := d * p[i]
			row := w[i]
			for j := range row {
				next[j] += row[j] * pi
			}
		}
		var delta float64
		for i := range p {
			diff := next[i] - p[i]
			delta += diff * diff
		}
		p, next = next, p
		if math.Sqrt(delta) <= eps {
			break
		}
	}
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("textrank diverged")
		}
	}
	return p, nil
}

// edgeWeight counts word occurrences shared by two sentences, given each
// sentence's word counts and total word count.
func edgeWeight(a map[string]int, na int, b map[string]int, nb int) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
		na, nb = nb, na
	}
	var shared int
	for w, c := range a {
		shared += c * b[w]
	}
	if shared == 0 {
		return 0
	}
	norm := math.Log(float64(na)) + math.Log(float64(nb))
	if norm < 1e-9 {
		return float64(shared)
	}
	return float64(shared) / norm
}
