package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"ikigai/internal/cache"
	"ikigai/internal/model"
	pkgerrors "ikigai/pkg/errors"
	"ikigai/pkg/logger"
	"ikigai/storage/mq"
)

const welcomeQueue = "notification.welcome"

// WelcomeSender delivers the welcome to the user. Wired by the worker so
// the queue package stays free of delivery details.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, msg model.WelcomeMessage) error
}

var welcomeSender WelcomeSender

// SetWelcomeSender installs the delivery backend. Call before starting
// consumers.
func SetWelcomeSender(s WelcomeSender) {
	welcomeSender = s
}

// StartWelcomeConsumer blocks, processing welcome notifications. Each
// message is claimed in Redis first so redeliveries are not sent twice.
func StartWelcomeConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.WelcomeMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal welcome message: %w", err)
		}

		claimed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// claim check failed, process anyway rather than stall
		} else if !claimed {
			return &pkgerrors.SkipMessageError{
				Reason: fmt.Sprintf("message %s already processed", msg.MessageID),
			}
		}

		logger.Logger.Info("Processing welcome notification",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.UserID),
			zap.String("persona", string(msg.Persona)),
		)

		if welcomeSender != nil {
			if err := welcomeSender.SendWelcome(ctx, msg); err != nil {
				_ = cache.UnmarkMessageProcessing(ctx, msg.MessageID)
				return fmt.Errorf("failed to send welcome: %w", err)
			}
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         welcomeQueue,
		ConsumerTag:   "welcome-consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartAllConsumers launches every consumer and waits for them to stop.
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := StartWelcomeConsumer(ctx); err != nil {
			logger.Logger.Error("Welcome consumer stopped", zap.Error(err))
		}
	}()

	wg.Wait()
}
