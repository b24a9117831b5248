package handlers

import (
	"context"

	"clubmanager/application/delivery"
	apperrors "clubmanager/pkg/errors"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// BatchHandler processes a batch of queued messages
type BatchHandler interface {
	HandleBatch(ctx context.Context, messages []delivery.InboundMessage) error
}

// DeliverEmailHandler drains the outbound email queue
type DeliverEmailHandler struct {
	consumer BatchHandler
	// partialBatch reports failures per message instead of failing the invocation
	partialBatch bool
	logger       *zap.Logger
}

// NewDeliverEmailHandler creates the handler. With partialBatch set the event
// source mapping must enable ReportBatchItemFailures.
func NewDeliverEmailHandler(consumer BatchHandler, partialBatch bool, logger *zap.Logger) *DeliverEmailHandler {
	return &DeliverEmailHandler{
		consumer:     consumer,
		partialBatch: partialBatch,
		logger:       logger,
	}
}

// Handle delivers every message of the SQS batch
func (h *DeliverEmailHandler) Handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	messages := make([]delivery.InboundMessage, 0, len(event.Records))
	for _, record := range event.Records {
		messages = append(messages, delivery.InboundMessage{
			MessageID:    record.MessageId,
			ReceiptToken: record.ReceiptHandle,
			Body:         record.Body,
		})
	}

	var response events.SQSEventResponse
	err := h.consumer.HandleBatch(ctx, messages)
	if err == nil {
		return response, nil
	}

	batchErr, ok := apperrors.AsBatchFailedError(err)
	if !ok {
		return response, err
	}
	for _, id := range batchErr.FailedMessageIDs {
		response.BatchItemFailures = append(response.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: id})
	}

	if h.partialBatch {
		h.logger.Warn("Reporting partial batch failure",
			zap.Int("failed", batchErr.FailedCount),
			zap.Int("total", batchErr.Total),
		)
		return response, nil
	}
	return response, err
}
