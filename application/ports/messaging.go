package ports

import (
	"context"

	"clubmanager/domain/email"
	"clubmanager/domain/events"
)

// EventPublisher forwards derived events to the bus. Any rejected entry fails
// the whole call with a PublishFailedError and the caller retries from the
// source of truth.
type EventPublisher interface {
	Publish(ctx context.Context, detailType events.DetailType, payloads []interface{}) error
}

// MessageQueue acknowledges consumed messages
type MessageQueue interface {
	Delete(ctx context.Context, receiptToken string) error
}

// DeliveryTransport sends one email and returns the provider message id
type DeliveryTransport interface {
	Send(ctx context.Context, req email.SendRequest) (string, error)
}

// EmailQueuer enqueues an email for asynchronous delivery
type EmailQueuer interface {
	QueueEmail(ctx context.Context, req email.SendRequest) error
}

// MetricsRecorder records operational counters
type MetricsRecorder interface {
	IncrementCounter(ctx context.Context, name string, value float64, dimensions map[string]string)
}
