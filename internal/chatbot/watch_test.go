package chatbot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_RetrainsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conversations:\n- - ping\n  - pong\n"), 0o644))

	b := &Bot{Store: newStore(t)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.TrainFile(ctx, path))

	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, b) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("conversations:\n- - ping\n  - reloaded pong\n"), 0o644))

	assert.Eventually(t, func() bool {
		got, err := b.Respond(context.Background(), "ping")
		return err == nil && got == "reloaded pong"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_KeepsTrainingOnBadCorpus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conversations:\n- - ping\n  - pong\n"), 0o644))

	b := &Bot{Store: newStore(t)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.TrainFile(ctx, path))
	go func() { _ = Watch(ctx, path, b) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("conversations: ["), 0o644))
	time.Sleep(300 * time.Millisecond)

	got, err := b.Respond(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
}
