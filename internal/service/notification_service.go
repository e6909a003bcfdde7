package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/config"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/store"
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, recipientID int64, text string) error
}

// NotificationService broadcasts collection announcements to every
// registered user. Delivery is best effort: a failed recipient is logged
// and skipped, never failing the mutation that triggered the broadcast.
type NotificationService struct {
	store  *store.Store
	sender Sender
	logger *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(st *store.Store, sender Sender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  st,
		sender: sender,
		logger: logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventCollectionOpened, n.handleCollectionOpened)
	dispatcher.Subscribe(events.EventCollectionClosed, n.handleCollectionClosed)
	dispatcher.Subscribe(events.EventUserBlacklisted, n.handleUserBlacklisted)
}

func (n *NotificationService) handleCollectionOpened(ctx context.Context, event events.Event) error {
	text := "Collection reopened, you can update your orders."
	if payload, ok := event.Payload.(events.CollectionOpenedPayload); ok && payload.Fresh {
		text = "A new collection has started, orders are open!"
	}
	n.Broadcast(ctx, text)
	return nil
}

func (n *NotificationService) handleCollectionClosed(ctx context.Context, event events.Event) error {
	n.Broadcast(ctx, "The collection is closed, no further orders are accepted.")
	return nil
}

func (n *NotificationService) handleUserBlacklisted(ctx context.Context, event events.Event) error {
	n.logger.Warn("UserBlacklisted", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

// Broadcast sends text to every registered user.
func (n *NotificationService) Broadcast(ctx context.Context, text string) {
	if n.sender == nil {
		return
	}
	users := n.store.Users()
	failed := 0
	for _, u := range users {
		if err := n.sender.Send(ctx, u.ID, text); err != nil {
			failed++
			n.logger.Debug("broadcast delivery failed",
				zap.Int64("recipient_id", u.ID),
				zap.Error(err))
		}
	}
	n.logger.Info("broadcast completed",
		zap.Int("recipients", len(users)),
		zap.Int("failed", failed))
}

// WebhookSender posts messages to a delivery webhook, typically a chat
// gateway that fans the text out to the recipient.
type WebhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender builds a sender for cfg, or nil when no webhook is
// configured.
func NewWebhookSender(cfg config.NotificationConfig) *WebhookSender {
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		return nil
	}
	return &WebhookSender{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one message to the webhook.
func (w *WebhookSender) Send(ctx context.Context, recipientID int64, text string) error {
	body, err := json.Marshal(map[string]any{
		"recipient_id": recipientID,
		"text":         text,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
