package chatbot

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Corpus is a training file in the chatterbot corpus layout: each
// conversation is a list of statements, each one answering the previous.
type Corpus struct {
	Categories    []string   `yaml:"categories"`
	Conversations [][]string `yaml:"conversations"`
}

// Pair is one stored statement and the statement it answers. InResponseTo is
// empty for the opening line of a conversation.
type Pair struct {
	Text         string
	InResponseTo string
}

// LoadCorpus reads and parses a YAML corpus file.
func LoadCorpus(path string) (Corpus, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("read corpus: %w", err)
	}
	return ParseCorpus(b)
}

// ParseCorpus parses YAML corpus bytes. A corpus without conversations is an
// error.
func ParseCorpus(b []byte) (Corpus, error) {
	var c Corpus
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Corpus{}, fmt.Errorf("parse corpus: %w", err)
	}
	if len(c.Pairs()) == 0 {
		return Corpus{}, fmt.Errorf("corpus has no conversations")
	}
	return c, nil
}

// Pairs flattens the conversations into statements. Blank lines are skipped
// and do not break the chain.
func (c Corpus) Pairs() []Pair {
	var out []Pair
	for _, conv := range c.Conversations {
		prev := ""
		for _, s := range conv {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			out = append(out, Pair{Text: s, InResponseTo: prev})
			prev = s
		}
	}
	return out
}
