// Package worker runs background consumers that sit beside the HTTP server.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/push"
	"hoa-backend-go/pkg/messagequeue"
)

// PushSender delivers Expo push messages.
type PushSender interface {
	Send(ctx context.Context, msgs []push.Message) (*push.Result, error)
}

// MailSender delivers e-mail.
type MailSender interface {
	Send(to []string, subject, body string) error
}

// MemberSource resolves notification recipients.
type MemberSource interface {
	GetByIDs(ctx context.Context, memberIDs []string) ([]*models.Member, error)
	List(ctx context.Context, page db.Page) ([]*models.Member, error)
	ListByRoles(ctx context.Context, roles []string) ([]*models.Member, error)
	RemovePushTokens(ctx context.Context, memberID string, tokens ...string) error
}

// NotificationWorker consumes NotificationEvents and fans them out as push
// messages and e-mails.
type NotificationWorker struct {
	mq      messagequeue.MessageQueue
	queue   string
	members MemberSource
	push    PushSender
	mail    MailSender // nil when SMTP is not configured
	logger  *zap.Logger
}

// NewNotificationWorker creates a NotificationWorker. mail may be nil.
func NewNotificationWorker(mq messagequeue.MessageQueue, queue string, members MemberSource, pushSender PushSender, mail MailSender, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{
		mq:      mq,
		queue:   queue,
		members: members,
		push:    pushSender,
		mail:    mail,
		logger:  logger.Named("notification-worker"),
	}
}

// Run consumes the queue until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) error {
	w.logger.Info("Notification worker started", zap.String("queue", w.queue))
	err := w.mq.Consume(ctx, w.queue, w.Handle)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("notification consumer stopped: %w", err)
	}
	w.logger.Info("Notification worker stopped")
	return nil
}

// Handle processes one queue message. Delivery failures are logged; only
// messages that cannot be decoded or resolved are rejected.
func (w *NotificationWorker) Handle(ctx context.Context, body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.logger.Warn("Discarding malformed notification", zap.Error(err))
		return fmt.Errorf("decode notification: %w", err)
	}

	recipients, err := w.recipients(ctx, event)
	if err != nil {
		w.logger.Error("Failed to resolve notification recipients",
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return err
	}
	if len(recipients) == 0 {
		w.logger.Debug("Notification has no recipients", zap.String("type", event.Type))
		return nil
	}

	w.sendPush(ctx, event, recipients)
	w.sendMail(event, recipients)
	return nil
}

func (w *NotificationWorker) recipients(ctx context.Context, event models.NotificationEvent) ([]*models.Member, error) {
	switch {
	case len(event.Recipients) > 0:
		return w.members.GetByIDs(ctx, event.Recipients)
	case event.Audience == models.AudienceAll:
		return w.members.List(ctx, db.Page{})
	case event.Audience == models.AudienceStaff:
		return w.members.ListByRoles(ctx, []string{models.RoleOfficer, models.RoleAdmin})
	}
	return nil, nil
}

func (w *NotificationWorker) sendPush(ctx context.Context, event models.NotificationEvent, recipients []*models.Member) {
	data := map[string]string{"type": event.Type}
	for k, v := range event.Data {
		data[k] = v
	}

	var msgs []push.Message
	owner := make(map[string]string) // token -> member ID
	for _, m := range recipients {
		for _, token := range m.PushTokens {
			if _, dup := owner[token]; dup || !push.IsExpoToken(token) {
				continue
			}
			owner[token] = m.ID
			msgs = append(msgs, push.Message{To: token, Title: event.Title, Body: event.Body, Data: data, Sound: "default"})
		}
	}
	if len(msgs) == 0 {
		return
	}

	res, err := w.push.Send(ctx, msgs)
	if err != nil {
		w.logger.Warn("Push delivery failed", zap.String("type", event.Type), zap.Error(err))
	}
	if res == nil {
		return
	}
	w.logger.Info("Push notifications sent",
		zap.String("type", event.Type),
		zap.Int("sent", res.Sent),
		zap.Int("unregistered", len(res.Unregistered)),
	)
	w.pruneTokens(ctx, owner, res.Unregistered)
}

// pruneTokens removes tokens Expo no longer recognizes from their members.
func (w *NotificationWorker) pruneTokens(ctx context.Context, owner map[string]string, unregistered []string) {
	byMember := make(map[string][]string)
	for _, token := range unregistered {
		if id, ok := owner[token]; ok {
			byMember[id] = append(byMember[id], token)
		}
	}
	for id, tokens := range byMember {
		if err := w.members.RemovePushTokens(ctx, id, tokens...); err != nil {
			w.logger.Warn("Failed to remove unregistered push tokens", zap.String("member_id", id), zap.Error(err))
		}
	}
}

func (w *NotificationWorker) sendMail(event models.NotificationEvent, recipients []*models.Member) {
	if w.mail == nil {
		return
	}
	var to []string
	for _, m := range recipients {
		if m.Email != "" {
			to = append(to, m.Email)
		}
	}
	if len(to) == 0 {
		return
	}
	// One message per recipient keeps addresses private.
	for _, addr := range to {
		if err := w.mail.Send([]string{addr}, event.Title, event.Body); err != nil {
			w.logger.Warn("E-mail delivery failed", zap.String("type", event.Type), zap.Error(err))
		}
	}
}
