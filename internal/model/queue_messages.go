package model

import "time"

// WelcomeMessage is published to RabbitMQ after a successful registration
// and consumed by the notification worker.
type WelcomeMessage struct {
	MessageID    string    `json:"message_id"`
	UserID       string    `json:"user_id"`
	Persona      Persona   `json:"persona"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
