package queue

import (
	"fmt"

	"go.uber.org/zap"

	"ikigai/internal/model"
	"ikigai/pkg/logger"
	"ikigai/pkg/snowflake"
	"ikigai/storage/mq"
)

const (
	notificationExchange = "notification.topic"
	welcomeRoutingPrefix = "notification.welcome"
)

// PublishWelcomeNotification enqueues the post-registration welcome for a
// new user. Routed by persona so consumers can pick persona-specific copy.
func PublishWelcomeNotification(msg model.WelcomeMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("user_id", msg.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("welcome_%d", id)
	}

	routingKey := fmt.Sprintf("%s.%s", welcomeRoutingPrefix, msg.Persona)

	if err := mq.PublishMessage(notificationExchange, routingKey, msg); err != nil {
		logger.Logger.Error("Failed to publish welcome notification",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published welcome notification",
		zap.String("message_id", msg.MessageID),
		zap.String("user_id", msg.UserID),
		zap.String("persona", string(msg.Persona)),
	)

	return nil
}
