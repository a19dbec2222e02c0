// Package facts merges per-source summaries into one short answer by
// counting how often each sentence occurs across them.
package facts

import (
	"errors"
	"sort"
	"strings"
)

const (
	// Delimiter splits joined summaries into candidate sentences.
	Delimiter = ". "
	// MinSentenceChars drops candidates too short to be a fact.
	MinSentenceChars = 25
	// TopFacts is how many sentences make up the answer.
	TopFacts = 3
)

// ErrNoFacts means no candidate sentence survived the length filter.
var ErrNoFacts = errors.New("no facts to confirm")

// Consolidate joins the summaries, splits them on ". ", and returns the most
// frequent sentences (ties in first-seen order) joined with ". " and ending
// with a period. Counting is exact string match.
func Consolidate(summaries []string) (string, error) {
	candidates := strings.Split(strings.Join(summaries, " "), Delimiter)

	counts := make(map[string]int, len(candidates))
	order := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len([]rune(c)) < MinSentenceChars {
			continue
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	if len(order) == 0 {
		return "", ErrNoFacts
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > TopFacts {
		order = order[:TopFacts]
	}
	return withPeriod(strings.Join(order, Delimiter)), nil
}

// Fallback joins the first two summaries with a space and ends the result
// with a period.
func Fallback(summaries []string) string {
	if len(summaries) > 2 {
		summaries = summaries[:2]
	}
	return withPeriod(strings.Join(summaries, " "))
}

// withPeriod appends a period unless s already ends with one.
func withPeriod(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
