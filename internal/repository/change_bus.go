package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChangesChannel is the Redis pub/sub channel carrying record change notices.
const ChangesChannel = "qa_scores:changes"

// ChangeNotice tells other instances that the record store changed.
type ChangeNotice struct {
	Origin   string    `json:"origin"`
	Type     string    `json:"type"`
	RecordID string    `json:"recordId"`
	At       time.Time `json:"at"`
}

// ChangeBus fans record change notices out between service instances over Redis pub/sub.
// Without a client it only serves the local instance.
type ChangeBus struct {
	client  *redis.Client
	channel string
	origin  string
	logger  *zap.Logger
}

// NewChangeBus constructs a bus with a unique origin id for this process.
func NewChangeBus(client *redis.Client, logger *zap.Logger) *ChangeBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeBus{client: client, channel: ChangesChannel, origin: uuid.NewString(), logger: logger}
}

// Origin identifies notices published by this instance.
func (b *ChangeBus) Origin() string {
	return b.origin
}

// Publish announces a change to other instances.
func (b *ChangeBus) Publish(ctx context.Context, notice ChangeNotice) error {
	if b.client == nil {
		return nil
	}
	notice.Origin = b.origin
	if notice.At.IsZero() {
		notice.At = time.Now().UTC()
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode change notice: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change notice: %w", err)
	}
	return nil
}

// Listen delivers notices from other instances to fn until ctx is cancelled.
// Notices published by this instance are skipped.
func (b *ChangeBus) Listen(ctx context.Context, fn func(ChangeNotice)) error {
	if b.client == nil {
		<-ctx.Done()
		return nil
	}

	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.logger.Info("listening for record changes", zap.String("channel", b.channel), zap.String("origin", b.origin))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("change subscription closed")
			}
			var notice ChangeNotice
			if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
				b.logger.Warn("discarding malformed change notice", zap.Error(err))
				continue
			}
			if notice.Origin == b.origin {
				continue
			}
			fn(notice)
		}
	}
}
