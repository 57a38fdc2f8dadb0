package core

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"hoa-backend-go/internal/models"
	"hoa-backend-go/pkg/messagequeue"
)

type queueNotifier struct {
	mq     messagequeue.MessageQueue
	queue  string
	logger *zap.Logger
}

// NewNotifier publishes notification events to queue. With a nil mq events
// are only logged, which keeps the API usable without a broker.
func NewNotifier(mq messagequeue.MessageQueue, queue string, logger *zap.Logger) Notifier {
	return &queueNotifier{mq: mq, queue: queue, logger: logger}
}

func (n *queueNotifier) Notify(ctx context.Context, event models.NotificationEvent) {
	if n.mq == nil {
		n.logger.Debug("notification dropped: no message queue", zap.String("type", event.Type))
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to encode notification", zap.String("type", event.Type), zap.Error(err))
		return
	}
	// The request may finish before the broker answers.
	if err := n.mq.Publish(context.WithoutCancel(ctx), n.queue, body); err != nil {
		n.logger.Warn("failed to publish notification",
			zap.String("type", event.Type),
			zap.String("queue", n.queue),
			zap.Error(err),
		)
	}
}
