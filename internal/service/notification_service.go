package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/btime-solutions/chamados-service/internal/config"
	"github.com/btime-solutions/chamados-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Actual delivery (SMTP, webhook) happens outside this service; the hooks
// here log and hand off.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubStatusChanged, n.handleSubStatusChanged)
	n.dispatcher.Subscribe(events.EventProjectStatusChanged, n.handleProjectStatusChanged)
	n.dispatcher.Subscribe(events.EventBatchImported, n.handleBatchImported)
}

func (n *NotificationService) handleSubStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("SubStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleProjectStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ProjectStatusChanged", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBatchImported(ctx context.Context, event events.Event) error {
	n.logger.Info("BatchImported", zap.String("actor", event.Actor), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
