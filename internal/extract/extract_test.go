package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestParagraphs_JoinsTrimmedParagraphs(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>Test Page</title></head>
      <body>
        <nav>Nav should be ignored</nav>
        <h1>Heading is not a paragraph</h1>
        <p>   The first paragraph has <b>bold</b> words in it.   </p>
        <div><p>The second paragraph sits inside a div and still counts as content.</p></div>
        <p>   </p>
        <p>Third<script>var x = 1;</script> paragraph.</p>
      </body>
    </html>`

	doc, err := Paragraphs([]byte(html), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Test Page" {
		t.Fatalf("expected title 'Test Page', got %q", doc.Title)
	}
	want := "The first paragraph has bold words in it. " +
		"The second paragraph sits inside a div and still counts as content. " +
		"Third paragraph."
	if doc.Text != want {
		t.Fatalf("unexpected text:\n got: %q\nwant: %q", doc.Text, want)
	}
	if doc.Paragraphs != 4 {
		t.Fatalf("expected 4 paragraphs counted, got %d", doc.Paragraphs)
	}
	if strings.Contains(doc.Text, "Nav should be ignored") || strings.Contains(doc.Text, "Heading") {
		t.Fatalf("did not expect non-paragraph text in extracted content")
	}
}

func TestParagraphs_NoParagraphs(t *testing.T) {
	html := `<html><body><div>` + strings.Repeat("plenty of text but no paragraphs ", 10) + `</div></body></html>`
	_, err := Paragraphs([]byte(html), 0)
	if !errors.Is(err, ErrNoParagraphs) {
		t.Fatalf("expected ErrNoParagraphs, got %v", err)
	}
}

func TestParagraphs_TooShort(t *testing.T) {
	html := `<html><body><p>Short.</p><p>Also short.</p></body></html>`
	_, err := Paragraphs([]byte(html), 0)
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestParagraphs_ExactlyMinimum(t *testing.T) {
	text := strings.Repeat("x", MinTextChars)
	doc, err := Paragraphs([]byte("<p>"+text+"</p>"), 0)
	if err != nil {
		t.Fatalf("expected %d characters to be accepted, got %v", MinTextChars, err)
	}
	if doc.Text != text {
		t.Fatalf("unexpected text length %d", len(doc.Text))
	}
	if _, err := Paragraphs([]byte("<p>"+text[1:]+"</p>"), 0); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected one character fewer to be rejected, got %v", err)
	}
}

func TestParagraphs_KeepsInnerWhitespace(t *testing.T) {
	text := strings.Repeat("ab  ", 27) + "ab"
	if n := len(text); n != 110 {
		t.Fatalf("fixture length %d", n)
	}
	doc, err := Paragraphs([]byte("<p>\n  "+text+"  \n</p>"), 0)
	if err != nil {
		t.Fatalf("expected %d characters to be accepted, got %v", len(text), err)
	}
	if doc.Text != text {
		t.Fatalf("inner whitespace changed:\n got: %q\nwant: %q", doc.Text, text)
	}
}

func TestParagraphExtractor_CustomMinimum(t *testing.T) {
	e := ParagraphExtractor{MinChars: 5}
	doc, err := e.Extract([]byte("<p>Hello there</p>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Hello there" {
		t.Fatalf("unexpected text %q", doc.Text)
	}
}
