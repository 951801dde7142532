// File: internal/events/notifier.go
package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the direct exchange carrying user lifecycle events.
	ExchangeName = "user-events"

	// UserCreatedKey and UserRemovedKey route each event type to its own
	// durable queue, so consumers can subscribe to one without filtering.
	UserCreatedKey = "user.created"
	UserRemovedKey = "user.removed"

	userCreatedQueue = "user-created-queue"
	userRemovedQueue = "user-removed-queue"

	// setupTimeout covers all declare/bind calls together at start-up.
	setupTimeout = 2 * time.Second
	// publishTimeout bounds how long a request handler waits for the broker
	// to confirm one publish.
	publishTimeout = 200 * time.Millisecond
)

// Notifier publishes user lifecycle events. Implementations must be safe for
// concurrent use by multiple request handlers.
type Notifier interface {
	NotifyNewUserCreated(ctx context.Context, userID int) error
	NotifyUserDeleted(ctx context.Context, userID int) error
}

// NotifyError reports a failed or unconfirmed publish. The triggering
// database write is already committed when it occurs, so callers log it and
// keep their success response.
type NotifyError struct {
	RoutingKey string
	Err        error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.RoutingKey, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// Confirmation is the broker acknowledgment of one reliable publish.
type Confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// Channel is the subset of the AMQP channel the notifier depends on, so tests
// can swap in a FakeChannel.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithDeferredConfirm(ctx context.Context, exchange, key string, msg amqp.Publishing) (Confirmation, error)
	Close() error
}

// amqpChannel adapts *amqp.Channel to the Channel interface.
type amqpChannel struct {
	ch *amqp.Channel
}

func (a *amqpChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return a.ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (a *amqpChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	return a.ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
}

func (a *amqpChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return a.ch.QueueBind(name, key, exchange, noWait, args)
}

func (a *amqpChannel) PublishWithDeferredConfirm(ctx context.Context, exchange, key string, msg amqp.Publishing) (Confirmation, error) {
	return a.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
}

func (a *amqpChannel) Close() error { return a.ch.Close() }

// dialAMQP connects, opens a channel and puts it in confirm mode. Tests
// override this variable.
var dialAMQP = func(url string) (io.Closer, Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, &amqpChannel{ch: ch}, nil
}

// RabbitNotifier publishes lifecycle events to a RabbitMQ direct exchange
// with per-publish broker confirmation.
type RabbitNotifier struct {
	conn io.Closer
	ch   Channel
	mu   sync.Mutex
}

// NewRabbitNotifier connects to the broker and declares the full topology
// under one setup deadline. A topology failure is returned as an error so the
// caller can refuse to start; serving without a configured topology would
// silently drop events.
func NewRabbitNotifier(ctx context.Context, url string) (*RabbitNotifier, error) {
	conn, ch, err := dialAMQP(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()
	if err := setupTopology(ctx, ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &RabbitNotifier{conn: conn, ch: ch}, nil
}

func setupTopology(ctx context.Context, ch Channel) error {
	done := make(chan error, 1)
	go func() { done <- declareTopology(ch) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("topology setup: %w", ctx.Err())
	}
}

func declareTopology(ch Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}
	bindings := []struct {
		queue string
		key   string
	}{
		{userCreatedQueue, UserCreatedKey},
		{userRemovedQueue, UserRemovedKey},
	}
	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.key, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}

// NotifyNewUserCreated publishes the new user's id with the user.created key.
func (n *RabbitNotifier) NotifyNewUserCreated(ctx context.Context, userID int) error {
	return n.publish(ctx, UserCreatedKey, userID)
}

// NotifyUserDeleted publishes the removed user's id with the user.removed key.
func (n *RabbitNotifier) NotifyUserDeleted(ctx context.Context, userID int) error {
	return n.publish(ctx, UserRemovedKey, userID)
}

// publish sends the id as a decimal string and waits for the broker's ack.
// The message is transient: delivery is confirmed but not durable across a
// broker restart.
func (n *RabbitNotifier) publish(ctx context.Context, key string, userID int) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	n.mu.Lock()
	confirmation, err := n.ch.PublishWithDeferredConfirm(ctx, ExchangeName, key, amqp.Publishing{
		ContentType:  "text/plain",
		DeliveryMode: amqp.Transient,
		Body:         []byte(strconv.Itoa(userID)),
	})
	n.mu.Unlock()
	if err != nil {
		return &NotifyError{RoutingKey: key, Err: err}
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return &NotifyError{RoutingKey: key, Err: err}
	}
	if !acked {
		return &NotifyError{RoutingKey: key, Err: errors.New("nacked by broker")}
	}
	return nil
}

// Close releases the channel and connection.
func (n *RabbitNotifier) Close() error {
	if err := n.ch.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}
