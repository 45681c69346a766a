package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staking-lens/internal/domain"
)

type fakeDatasets struct {
	mu             sync.Mutex
	generatedAt    string
	invalidated    []string
	invalidatedAll int
}

func (f *fakeDatasets) Manifest(ctx context.Context) (*domain.Manifest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.Manifest{GeneratedAt: f.generatedAt}, nil
}

func (f *fakeDatasets) Invalidate(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, name)
}

func (f *fakeDatasets) InvalidateAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidatedAll++
}

func (f *fakeDatasets) setGeneratedAt(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generatedAt = v
}

func (f *fakeDatasets) invalidateAllCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidatedAll
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []any
}

func (b *fakeBroadcaster) Broadcast(v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, v)
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

func TestWatcher_FirstPollPrimesBaseline(t *testing.T) {
	ds := &fakeDatasets{generatedAt: "2024-06-01T00:00:00Z"}
	hub := &fakeBroadcaster{}
	w := NewWatcher(ds, hub, time.Hour, zerolog.Nop())

	w.poll(context.Background())

	assert.Equal(t, 0, hub.count())
	assert.Equal(t, 0, ds.invalidateAllCount())
	assert.Equal(t, []string{"manifest"}, ds.invalidated)
}

func TestWatcher_BroadcastsOnChange(t *testing.T) {
	ds := &fakeDatasets{generatedAt: "2024-06-01T00:00:00Z"}
	hub := &fakeBroadcaster{}
	w := NewWatcher(ds, hub, time.Hour, zerolog.Nop())

	ctx := context.Background()
	w.poll(ctx)

	// Unchanged manifest: nothing happens.
	w.poll(ctx)
	assert.Equal(t, 0, hub.count())

	ds.setGeneratedAt("2024-06-02T00:00:00Z")
	w.poll(ctx)

	require.Equal(t, 1, hub.count())
	msg, ok := hub.messages[0].(RefreshMessage)
	require.True(t, ok)
	assert.Equal(t, "datasets_refreshed", msg.Type)
	assert.Equal(t, "2024-06-02T00:00:00Z", msg.GeneratedAt)
	assert.Equal(t, 1, ds.invalidateAllCount())
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	ds := &fakeDatasets{generatedAt: "2024-06-01T00:00:00Z"}
	w := NewWatcher(ds, &fakeBroadcaster{}, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
