package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/repository"
)

// SnapshotSource hands out the current record snapshot and change notifications.
type SnapshotSource interface {
	Subscribe(fn func(models.Snapshot)) (unsubscribe func())
	Current() models.Snapshot
}

type recordLister interface {
	ListAll(ctx context.Context) ([]models.QaRecord, error)
}

type changeListener interface {
	Listen(ctx context.Context, fn func(repository.ChangeNotice)) error
}

// SnapshotFeed keeps the full record list in memory and republishes it after every change.
// Snapshots are replaced whole and must be treated as read-only by subscribers.
type SnapshotFeed struct {
	repo    recordLister
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time

	refreshMu sync.Mutex
	notifyMu  sync.Mutex

	mu      sync.RWMutex
	current models.Snapshot
	subs    map[uint64]func(models.Snapshot)
	nextID  uint64
}

// NewSnapshotFeed builds an empty feed; call Refresh to load the first snapshot.
func NewSnapshotFeed(repo recordLister, metrics *MetricsService, logger *zap.Logger) *SnapshotFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotFeed{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		current: models.Snapshot{Records: []models.QaRecord{}},
		subs:    make(map[uint64]func(models.Snapshot)),
	}
}

// Current returns the latest snapshot.
func (f *SnapshotFeed) Current() models.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Subscribe registers fn and calls it immediately with the current snapshot, then after
// every refresh in order. Callbacks must not call Refresh. The returned func is idempotent.
func (f *SnapshotFeed) Subscribe(fn func(models.Snapshot)) func() {
	f.notifyMu.Lock()
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	current := f.current
	f.mu.Unlock()
	fn(current)
	f.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Refresh reloads every record from the store, swaps the snapshot and notifies subscribers.
func (f *SnapshotFeed) Refresh(ctx context.Context) (models.Snapshot, error) {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	start := time.Now()
	records, err := f.repo.ListAll(ctx)
	f.metrics.ObserveDBQuery("qa_scores.list_all", time.Since(start))
	if err != nil {
		f.metrics.ObserveSnapshot(models.Snapshot{}, err)
		return f.Current(), fmt.Errorf("reload snapshot: %w", err)
	}
	if records == nil {
		records = []models.QaRecord{}
	}

	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.mu.Lock()
	next := models.Snapshot{Version: f.current.Version + 1, Records: records, LoadedAt: f.now()}
	f.current = next
	subscribers := make([]func(models.Snapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		subscribers = append(subscribers, fn)
	}
	f.mu.Unlock()

	f.metrics.ObserveSnapshot(next, nil)
	f.logger.Debug("snapshot refreshed", zap.Uint64("version", next.Version), zap.Int("records", next.Len()))
	for _, fn := range subscribers {
		fn(next)
	}
	return next, nil
}

// FollowChanges reloads the snapshot whenever another instance reports a change,
// until ctx is cancelled.
func (f *SnapshotFeed) FollowChanges(ctx context.Context, source changeListener) error {
	return source.Listen(ctx, func(notice repository.ChangeNotice) {
		if _, err := f.Refresh(ctx); err != nil {
			f.logger.Error("failed to apply remote change", zap.String("record_id", notice.RecordID), zap.Error(err))
		}
	})
}
