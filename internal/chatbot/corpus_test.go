package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCorpus(t *testing.T) {
	c, err := LoadCorpus("testdata/corpus.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"greetings", "sanji"}, c.Categories)
	require.Len(t, c.Conversations, 5)
	assert.Equal(t, []string{"Hello", "Hi there! I am ASH-1."}, c.Conversations[0])
}

func TestCorpusPairs_ChainsConsecutiveStatements(t *testing.T) {
	c := Corpus{Conversations: [][]string{
		{"a", " ", "b", "c"},
		{"d"},
	}}
	assert.Equal(t, []Pair{
		{Text: "a"},
		{Text: "b", InResponseTo: "a"},
		{Text: "c", InResponseTo: "b"},
		{Text: "d"},
	}, c.Pairs())
}

func TestParseCorpus_Errors(t *testing.T) {
	_, err := ParseCorpus([]byte("conversations: ["))
	assert.Error(t, err)

	_, err = ParseCorpus([]byte("categories: [x]\n"))
	assert.Error(t, err)

	_, err = LoadCorpus("testdata/missing.yaml")
	assert.Error(t, err)
}
