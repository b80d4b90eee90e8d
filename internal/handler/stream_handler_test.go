package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/middleware"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

type manualFeed struct {
	mu       sync.Mutex
	current  models.Snapshot
	listener func(models.Snapshot)
	ready    chan struct{}
}

func (f *manualFeed) Subscribe(fn func(models.Snapshot)) func() {
	f.mu.Lock()
	f.listener = fn
	current := f.current
	f.mu.Unlock()
	fn(current)
	close(f.ready)
	return func() {
		f.mu.Lock()
		f.listener = nil
		f.mu.Unlock()
	}
}

func (f *manualFeed) Current() models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *manualFeed) push(s models.Snapshot) {
	f.mu.Lock()
	fn := f.listener
	f.current = s
	f.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

type viewsOnly struct{}

func (viewsOnly) Views(_ models.Identity, records []models.QaRecord) []dto.RecordView {
	views := make([]dto.RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, dto.RecordView{QaRecord: r})
	}
	return views
}

type streamCounter struct{ open int64 }

func (s *streamCounter) StreamOpened() { atomic.AddInt64(&s.open, 1) }
func (s *streamCounter) StreamClosed() { atomic.AddInt64(&s.open, -1) }

func TestStreamHandlerPushesSnapshots(t *testing.T) {
	feed := &manualFeed{current: models.Snapshot{Version: 1, Records: []models.QaRecord{{ID: "a"}}}, ready: make(chan struct{})}
	counter := &streamCounter{}
	h := NewStreamHandler(feed, viewsOnly{}, counter, time.Hour, nil)

	r := gin.New()
	r.GET("/records/stream", func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, reviewer)
	}, h.Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/records/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	nextData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data:") {
				return line
			}
		}
	}

	assert.Contains(t, nextData(), `"version":1`)
	<-feed.ready
	feed.push(models.Snapshot{Version: 2, Records: []models.QaRecord{{ID: "a"}, {ID: "b"}}})
	second := nextData()
	assert.Contains(t, second, `"version":2`)
	assert.Contains(t, second, `"id":"b"`)
	assert.Equal(t, int64(1), atomic.LoadInt64(&counter.open))

	cancel()
	require.Eventually(t, func() bool { return atomic.LoadInt64(&counter.open) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamHandlerRequiresIdentity(t *testing.T) {
	h := NewStreamHandler(&manualFeed{ready: make(chan struct{})}, viewsOnly{}, nil, 0, nil)
	c, rec := newContext(http.MethodGet, "/records/stream", "")

	h.Stream(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
