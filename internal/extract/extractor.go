package extract

// Extractor converts raw HTML bytes into a Document.
// Implementations should be deterministic and avoid side effects.
type Extractor interface {
	Extract(input []byte) (Document, error)
}

// ParagraphExtractor adapts Paragraphs to the Extractor interface.
type ParagraphExtractor struct {
	// MinChars overrides MinTextChars when positive.
	MinChars int
}

func (p ParagraphExtractor) Extract(input []byte) (Document, error) {
	return Paragraphs(input, p.MinChars)
}
