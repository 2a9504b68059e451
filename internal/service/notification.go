package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"ikigai/internal/model"
	"ikigai/pkg/logger"
)

var (
	notificationService *NotificationService
	notificationOnce    sync.Once
)

func Notification() *NotificationService {
	notificationOnce.Do(func() {
		notificationService = &NotificationService{}
	})
	return notificationService
}

// NotificationService renders and delivers user-facing notifications.
// Delivery is log-only until an email provider is wired in.
type NotificationService struct{}

// SendWelcome delivers the post-registration welcome with
// persona-specific copy.
func (s *NotificationService) SendWelcome(ctx context.Context, msg model.WelcomeMessage) error {
	var body string
	switch msg.Persona {
	case model.PersonaVolunteer:
		body = fmt.Sprintf("Welcome, %s! Thank you for volunteering. Your dashboard is ready.", msg.Name)
	default:
		body = fmt.Sprintf("Welcome, %s! Your garden is ready to grow.", msg.Name)
	}

	logger.Logger.Info("Delivering welcome notification",
		zap.String("message_id", msg.MessageID),
		zap.String("user_id", msg.UserID),
		zap.String("email", msg.Email),
		zap.String("body", body),
	)
	return nil
}
