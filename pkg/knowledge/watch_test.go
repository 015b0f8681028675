package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beauteq/salon-assistant/pkg/store"
)

type signallingStore struct {
	mu       sync.Mutex
	upserts  int
	notified chan struct{}
}

func (s *signallingStore) ListKnowledge() ([]store.KnowledgeItem, error) {
	return nil, nil
}

func (s *signallingStore) UpsertKnowledge(items []store.KnowledgeItem) error {
	s.mu.Lock()
	s.upserts++
	s.mu.Unlock()
	select {
	case s.notified <- struct{}{}:
	default:
	}
	return nil
}

func TestWatch_ReimportsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCorpus), 0o644))

	knowledge := &signallingStore{notified: make(chan struct{}, 1)}
	importer := NewImporter(knowledge)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- importer.Watch(ctx, path) }()

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(yamlCorpus), 0o644))

	select {
	case <-knowledge.notified:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reimport after write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatch_MissingFile(t *testing.T) {
	importer := NewImporter(&signallingStore{notified: make(chan struct{}, 1)})

	err := importer.Watch(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch file")
}
