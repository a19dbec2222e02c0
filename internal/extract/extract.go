package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// MinTextChars is the shortest concatenated paragraph text accepted as content.
const MinTextChars = 100

var (
	// ErrNoParagraphs means the page has no <p> elements.
	ErrNoParagraphs = errors.New("no <p> elements found")
	// ErrTooShort means the concatenated paragraph text is below the minimum.
	ErrTooShort = errors.New("extracted text too short")
)

// Document is the paragraph text extracted from one page.
type Document struct {
	Title string
	Text  string
	// Paragraphs counts the <p> elements found, including empty ones.
	Paragraphs int
}

// Paragraphs parses input as HTML and joins the text of every <p> element
// with single spaces. Each paragraph is trimmed at both ends and otherwise
// kept as is; empty paragraphs contribute nothing. The result must reach
// minChars characters (MinTextChars when minChars <= 0).
func Paragraphs(input []byte, minChars int) (Document, error) {
	if minChars <= 0 {
		minChars = MinTextChars
	}
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}
	doc := Document{Title: strings.TrimSpace(findTitle(node))}

	parts := make([]string, 0, 32)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "p") {
			doc.Paragraphs++
			var b strings.Builder
			collectText(&b, n)
			if text := strings.TrimSpace(b.String()); text != "" {
				parts = append(parts, text)
			}
			// <p> cannot nest in parsed HTML, so the subtree is done.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	if doc.Paragraphs == 0 {
		return doc, ErrNoParagraphs
	}
	doc.Text = strings.Join(parts, " ")
	if n := len([]rune(doc.Text)); n < minChars {
		return doc, fmt.Errorf("%w: %d characters", ErrTooShort, n)
	}
	return doc, nil
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

// collectText appends the visible text below n, skipping script-like elements.
func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template":
			return
		case "br":
			b.WriteByte(' ')
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}
