package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"ikigai/config"
)

var (
	conn    *amqp.Connection
	connMu  sync.RWMutex
	initErr error
	once    sync.Once
)

func Init() error {
	once.Do(func() {
		url := config.Cfg.GetRabbitMQURL()

		var c *amqp.Connection
		c, initErr = amqp.Dial(url)
		if initErr != nil {
			return
		}

		connMu.Lock()
		conn = c
		connMu.Unlock()

		initErr = declareTopology()
	})

	return initErr
}

// Connection returns the process-lifetime AMQP connection.
func Connection() *amqp.Connection {
	connMu.RLock()
	defer connMu.RUnlock()
	return conn
}

// declareTopology sets up the exchanges and queues the service publishes to.
func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		"notification.topic", // exchange
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	queue, err := ch.QueueDeclare(
		"notification.welcome",
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	return ch.QueueBind(queue.Name, "notification.welcome.*", "notification.topic", false, nil)
}

func Close(ctx context.Context) error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		conn = nil
		return err
	}
}
