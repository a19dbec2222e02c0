package app

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/sanji/internal/pipeline"
)

// RenderText formats a result for the terminal: the answer, then numbered
// sources.
func RenderText(res pipeline.Result) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(res.Answer))
	b.WriteString("\n")
	if len(res.Sources) > 0 {
		b.WriteString("\nSources:\n")
		for i, u := range res.Sources {
			fmt.Fprintf(&b, "%d. %s\n", i+1, u)
		}
	}
	return b.String()
}

// RenderMarkdown formats a result as a small Markdown document titled by the
// query.
func RenderMarkdown(query string, res pipeline.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(query))
	b.WriteString(strings.TrimSpace(res.Answer))
	b.WriteString("\n")
	if len(res.Sources) > 0 {
		b.WriteString("\n## Sources\n\n")
		for i, u := range res.Sources {
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, u, u)
		}
	}
	return b.String()
}
