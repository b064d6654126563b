package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// BookingConfirmation is the message handed to the external mailer after a
// booking commits. Delivery is best-effort; a failed send never affects the
// booking itself.
type BookingConfirmation struct {
	Recipient     string          `json:"recipient"`
	BookingID     string          `json:"booking_id"`
	Seats         int             `json:"seats"`
	DateTimeLabel string          `json:"date_time_label"`
	TourName      string          `json:"tour_name,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Notifier sends booking confirmations. Implementations must be safe for
// concurrent use.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error
}

// QueueNotifier pushes confirmation messages onto a Redis list consumed by
// the external mail worker.
type QueueNotifier struct {
	redis    *redis.Client
	queueKey string
}

func NewQueueNotifier(redisClient *redis.Client, queueKey string) *QueueNotifier {
	return &QueueNotifier{
		redis:    redisClient,
		queueKey: queueKey,
	}
}

func (n *QueueNotifier) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error {
	if n.redis == nil {
		return errors.New("notification queue unavailable")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return n.redis.RPush(ctx, n.queueKey, data).Err()
}
