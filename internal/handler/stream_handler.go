package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/internal/dto"
	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/service"
)

const defaultHeartbeat = 25 * time.Second

type streamPresenter interface {
	Views(viewer models.Identity, records []models.QaRecord) []dto.RecordView
}

type streamObserver interface {
	StreamOpened()
	StreamClosed()
}

// StreamHandler pushes every new snapshot to the browser as server-sent events.
type StreamHandler struct {
	feed      service.SnapshotSource
	presenter streamPresenter
	metrics   streamObserver
	heartbeat time.Duration
	logger    *zap.Logger
}

// NewStreamHandler constructs a StreamHandler. A non-positive heartbeat uses 25s.
func NewStreamHandler(feed service.SnapshotSource, presenter streamPresenter, metrics streamObserver, heartbeat time.Duration, logger *zap.Logger) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{feed: feed, presenter: presenter, metrics: metrics, heartbeat: heartbeat, logger: logger}
}

// Stream godoc
// @Summary Live record stream
// @Description Server-sent events carrying the full record list after every change. The first event is sent immediately.
// @Tags Records
// @Produce text/event-stream
// @Param access_token query string false "Access token for clients that cannot send headers"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /records/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	// One slot: a slow client skips intermediate snapshots and only sees the latest.
	mailbox := make(chan models.Snapshot, 1)
	unsubscribe := h.feed.Subscribe(func(snapshot models.Snapshot) {
		for {
			select {
			case mailbox <- snapshot:
				return
			default:
			}
			select {
			case <-mailbox:
			default:
			}
		}
	})
	defer unsubscribe()

	if h.metrics != nil {
		h.metrics.StreamOpened()
		defer h.metrics.StreamClosed()
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	ctx := c.Request.Context()

	h.logger.Debug("stream opened", zap.String("actor", identity.Email))
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snapshot := <-mailbox:
			c.SSEvent("snapshot", dto.StreamEvent{
				Version: snapshot.Version,
				Records: h.presenter.Views(identity, snapshot.Records),
			})
			return true
		case <-ticker.C:
			c.SSEvent("heartbeat", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
	h.logger.Debug("stream closed", zap.String("actor", identity.Email))
}
