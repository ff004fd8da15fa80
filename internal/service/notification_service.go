package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-directory/internal/config"
	"github.com/spec-kit/shop-directory/internal/events"
)

// NotificationService emits notifications for directory events.
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
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventBusinessCreated, n.handleBusinessCreated)
	n.dispatcher.Subscribe(events.EventBusinessUpdated, n.handleChange)
	n.dispatcher.Subscribe(events.EventProductCreated, n.handleChange)
	n.dispatcher.Subscribe(events.EventProductUpdated, n.handleChange)
	n.dispatcher.Subscribe(events.EventProductDeleted, n.handleChange)
	n.dispatcher.Subscribe(events.EventReviewSubmitted, n.handleReviewSubmitted)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("user_id", event.SubjectID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// New listings start pending, so moderators get both channels.
func (n *NotificationService) handleBusinessCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("BusinessCreated", zap.String("business_id", event.BusinessID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleChange(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("business_id", event.BusinessID),
		zap.String("subject_id", event.SubjectID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReviewSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ReviewSubmitted", zap.String("business_id", event.BusinessID), zap.String("review_id", event.SubjectID))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
