package chatbot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func trainedBot(t *testing.T) *Bot {
	t.Helper()
	b := &Bot{Store: newStore(t)}
	require.NoError(t, b.TrainFile(context.Background(), "testdata/corpus.yaml"))
	return b
}

func TestBot_RespondsToClosestPrompt(t *testing.T) {
	b := trainedBot(t)
	ctx := context.Background()

	got, err := b.Respond(ctx, "what is your name")
	require.NoError(t, err)
	assert.Equal(t, "My name is ASH-1.", got)

	got, err = b.Respond(ctx, "How are you")
	require.NoError(t, err)
	assert.Equal(t, "I am running at full steam, thanks for asking.", got)

	// continues a multi-turn conversation
	got, err = b.Respond(ctx, "I live inside Sanji AI.")
	require.NoError(t, err)
	assert.Equal(t, "That is a nice place to live.", got)
}

func TestBot_TiesGoToFirstStoredResponse(t *testing.T) {
	b := trainedBot(t)
	got, err := b.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there! I am ASH-1.", got)
}

func TestBot_MostCommonResponseWins(t *testing.T) {
	b := &Bot{Store: newStore(t)}
	c := Corpus{Conversations: [][]string{
		{"ping", "pong"},
		{"ping", "pang"},
		{"ping", "pang"},
	}}
	require.NoError(t, b.Train(context.Background(), c))
	got, err := b.Respond(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "pang", got)
}

func TestBot_DefaultResponseBelowThreshold(t *testing.T) {
	b := trainedBot(t)
	got, err := b.Respond(context.Background(), "zzzzzzzzzzzzzzzzzzzzzzzzzzzz")
	require.NoError(t, err)
	assert.Equal(t, DefaultResponse, got)

	got, err = b.Respond(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, DefaultResponse, got)

	b.Default = "Say again?"
	got, err = b.Respond(context.Background(), "qqqqqqqqqqqqqqqqqqqq")
	require.NoError(t, err)
	assert.Equal(t, "Say again?", got)
}

func TestBot_RequiresTraining(t *testing.T) {
	b := &Bot{Store: newStore(t)}
	_, err := b.Respond(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestBot_RetrainReplacesStatements(t *testing.T) {
	b := trainedBot(t)
	ctx := context.Background()
	n, err := b.Store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	require.NoError(t, b.Train(ctx, Corpus{Conversations: [][]string{{"hello", "new greeting"}}}))
	n, err = b.Store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := b.Respond(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "new greeting", got)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.sqlite3")
	ctx := context.Background()
	s, err := OpenStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, []Pair{{Text: "a"}, {Text: "b", InResponseTo: "a"}}))
	require.NoError(t, s.Close())

	s, err = OpenStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	prompts, err := s.Prompts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, prompts)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Hello", "hello"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.InDelta(t, 0.8, Similarity("hello", "hallo"), 1e-9)
}
