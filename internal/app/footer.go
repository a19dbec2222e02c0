package app

import (
	"strconv"
	"strings"
	"time"
)

// appendFooter records how an exported answer was produced: binary version,
// search provider, number of sources and generation time.
func appendFooter(markdown string, provider string, numSources int, now time.Time) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(markdown, "\n"))
	b.WriteString("\n\n---\n")
	b.WriteString("Generated by sanji ")
	b.WriteString(BuildVersion)
	b.WriteString("; search=")
	b.WriteString(strings.TrimSpace(provider))
	b.WriteString("; sources=")
	b.WriteString(strconv.Itoa(numSources))
	b.WriteString("; at=")
	b.WriteString(now.UTC().Format(time.RFC3339))
	b.WriteString("\n")
	return b.String()
}
