package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"clubmanager/application/ports"
	"clubmanager/domain/email"
	apperrors "clubmanager/pkg/errors"

	"go.uber.org/zap"
)

// Metric names recorded per batch
const (
	MetricMessagesDelivered = "EmailsDelivered"
	MetricMessagesFailed    = "EmailDeliveryFailures"
	MetricAckFailures       = "EmailAckFailures"
)

// InboundMessage is one queued delivery request
type InboundMessage struct {
	MessageID    string
	ReceiptToken string
	Body         string
}

type outcome int

const (
	outcomeAcknowledged outcome = iota
	// outcomeDelivered means the message was sent but could not be removed from the queue
	outcomeDelivered
	outcomeFailed
)

// BatchConsumer delivers queued emails.
//
// Every message of a batch is attempted. Delivered messages are removed from
// the queue; failed ones are left for the queue to redeliver. A failure to
// remove a delivered message is only logged.
type BatchConsumer struct {
	transport ports.DeliveryTransport
	queue     ports.MessageQueue
	metrics   ports.MetricsRecorder
	logger    *zap.Logger
}

// NewBatchConsumer creates a new batch consumer
func NewBatchConsumer(
	transport ports.DeliveryTransport,
	queue ports.MessageQueue,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *BatchConsumer {
	return &BatchConsumer{
		transport: transport,
		queue:     queue,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleBatch processes the messages concurrently and returns a
// *errors.BatchFailedError listing the failed message ids once all of them
// have been attempted.
func (c *BatchConsumer) HandleBatch(ctx context.Context, messages []InboundMessage) error {
	outcomes := make([]outcome, len(messages))

	var wg sync.WaitGroup
	for i, msg := range messages {
		wg.Add(1)
		go func(i int, msg InboundMessage) {
			defer wg.Done()
			outcomes[i] = c.process(ctx, msg)
		}(i, msg)
	}
	wg.Wait()

	var (
		failedIDs []string
		delivered int
		ackFailed int
	)
	for i, o := range outcomes {
		switch o {
		case outcomeFailed:
			failedIDs = append(failedIDs, messages[i].MessageID)
		case outcomeDelivered:
			delivered++
			ackFailed++
		default:
			delivered++
		}
	}

	c.record(ctx, MetricMessagesDelivered, delivered)
	c.record(ctx, MetricMessagesFailed, len(failedIDs))
	c.record(ctx, MetricAckFailures, ackFailed)

	c.logger.Debug("Finished processing batch",
		zap.Int("batchSize", len(messages)),
		zap.Int("failedCount", len(failedIDs)),
		zap.Int("ackFailedCount", ackFailed),
	)

	if len(failedIDs) > 0 {
		return &apperrors.BatchFailedError{
			FailedCount:      len(failedIDs),
			Total:            len(messages),
			FailedMessageIDs: failedIDs,
		}
	}
	return nil
}

func (c *BatchConsumer) process(ctx context.Context, msg InboundMessage) outcome {
	if err := c.deliver(ctx, msg); err != nil {
		c.logger.Error("Error processing message",
			zap.String("messageID", msg.MessageID),
			zap.Error(err),
		)
		return outcomeFailed
	}

	if err := c.queue.Delete(ctx, msg.ReceiptToken); err != nil {
		c.logger.Warn("Error deleting message from queue",
			zap.String("messageID", msg.MessageID),
			zap.Error(fmt.Errorf("%w: %w", apperrors.ErrAckFailed, err)),
		)
		return outcomeDelivered
	}
	return outcomeAcknowledged
}

func (c *BatchConsumer) deliver(ctx context.Context, msg InboundMessage) error {
	var req email.SendRequest
	if err := json.Unmarshal([]byte(msg.Body), &req); err != nil {
		return fmt.Errorf("%w: invalid message body: %w", apperrors.ErrDeliveryFailed, err)
	}

	providerID, err := c.transport.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrDeliveryFailed, err)
	}

	c.logger.Info("Message delivered",
		zap.String("messageID", msg.MessageID),
		zap.String("providerMessageID", providerID),
	)
	return nil
}

func (c *BatchConsumer) record(ctx context.Context, name string, count int) {
	if c.metrics == nil || count == 0 {
		return
	}
	c.metrics.IncrementCounter(ctx, name, float64(count), map[string]string{"Consumer": "deliver-email"})
}
