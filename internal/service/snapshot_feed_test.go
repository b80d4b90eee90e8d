package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/repository"
)

type versionLog struct {
	mu       sync.Mutex
	versions []uint64
}

func (l *versionLog) add(s models.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.versions = append(l.versions, s.Version)
}

func (l *versionLog) get() []uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]uint64(nil), l.versions...)
}

func TestSnapshotFeedDeliversImmediatelyAndAfterRefresh(t *testing.T) {
	feed := NewSnapshotFeed(newMemoryStore(storedRecord()), nil, nil)
	log := &versionLog{}

	unsubscribe := feed.Subscribe(log.add)
	assert.Equal(t, []uint64{0}, log.get())

	snapshot, err := feed.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snapshot.Version)
	assert.Equal(t, 1, snapshot.Len())
	assert.Equal(t, []uint64{0, 1}, log.get())

	unsubscribe()
	unsubscribe()
	_, err = feed.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1}, log.get())
	assert.Equal(t, uint64(2), feed.Current().Version)
}

func TestSnapshotFeedKeepsLastSnapshotOnError(t *testing.T) {
	store := newMemoryStore(storedRecord())
	feed := NewSnapshotFeed(store, nil, nil)
	_, err := feed.Refresh(context.Background())
	require.NoError(t, err)

	store.listErr = errors.New("db down")
	got, err := feed.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, uint64(1), got.Version)
	assert.Equal(t, 1, feed.Current().Len())
}

func TestSnapshotFeedConcurrentRefreshesAreOrdered(t *testing.T) {
	feed := NewSnapshotFeed(newMemoryStore(), nil, nil)
	log := &versionLog{}
	defer feed.Subscribe(log.add)()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = feed.Refresh(context.Background())
		}()
	}
	wg.Wait()

	versions := log.get()
	require.Len(t, versions, 9)
	for i, v := range versions {
		assert.Equal(t, uint64(i), v)
	}
}

type fakeChangeSource struct {
	notices chan repository.ChangeNotice
}

func (s *fakeChangeSource) Listen(ctx context.Context, fn func(repository.ChangeNotice)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notice := <-s.notices:
			fn(notice)
		}
	}
}

func TestSnapshotFeedFollowChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMemoryStore()
	feed := NewSnapshotFeed(store, nil, nil)
	source := &fakeChangeSource{notices: make(chan repository.ChangeNotice)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.FollowChanges(ctx, source) }()

	store.mu.Lock()
	store.records["remote"] = storedRecord()
	store.mu.Unlock()
	source.notices <- repository.ChangeNotice{Origin: "other", Type: "qa_record.created", RecordID: "remote"}

	require.Eventually(t, func() bool { return feed.Current().Len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
