// File: internal/events/fake.go
package events

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FakeNotifier implements Notifier for handler tests.
type FakeNotifier struct {
	NotifyNewUserCreatedFn func(ctx context.Context, userID int) error
	NotifyUserDeletedFn    func(ctx context.Context, userID int) error
}

func (f *FakeNotifier) NotifyNewUserCreated(ctx context.Context, userID int) error {
	if f.NotifyNewUserCreatedFn != nil {
		return f.NotifyNewUserCreatedFn(ctx, userID)
	}
	panic("unexpected NotifyNewUserCreated")
}

func (f *FakeNotifier) NotifyUserDeleted(ctx context.Context, userID int) error {
	if f.NotifyUserDeletedFn != nil {
		return f.NotifyUserDeletedFn(ctx, userID)
	}
	panic("unexpected NotifyUserDeleted")
}

// FakeChannel implements Channel for notifier tests.
type FakeChannel struct {
	ExchangeDeclareFn            func(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclareFn               func(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBindFn                  func(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithDeferredConfirmFn func(ctx context.Context, exchange, key string, msg amqp.Publishing) (Confirmation, error)
	CloseFn                      func() error
}

func (f *FakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if f.ExchangeDeclareFn != nil {
		return f.ExchangeDeclareFn(name, kind, durable, autoDelete, internal, noWait, args)
	}
	panic("unexpected ExchangeDeclare")
}

func (f *FakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.QueueDeclareFn != nil {
		return f.QueueDeclareFn(name, durable, autoDelete, exclusive, noWait, args)
	}
	panic("unexpected QueueDeclare")
}

func (f *FakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	if f.QueueBindFn != nil {
		return f.QueueBindFn(name, key, exchange, noWait, args)
	}
	panic("unexpected QueueBind")
}

func (f *FakeChannel) PublishWithDeferredConfirm(ctx context.Context, exchange, key string, msg amqp.Publishing) (Confirmation, error) {
	if f.PublishWithDeferredConfirmFn != nil {
		return f.PublishWithDeferredConfirmFn(ctx, exchange, key, msg)
	}
	panic("unexpected PublishWithDeferredConfirm")
}

func (f *FakeChannel) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}

// FakeConfirmation implements Confirmation.
type FakeConfirmation struct {
	WaitContextFn func(ctx context.Context) (bool, error)
}

func (f *FakeConfirmation) WaitContext(ctx context.Context) (bool, error) {
	if f.WaitContextFn != nil {
		return f.WaitContextFn(ctx)
	}
	panic("unexpected WaitContext")
}
