package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"clubmanager/domain/email"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// API is the subset of the SQS client used by the queue adapter
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Queue is the outbound email queue. It implements ports.MessageQueue for
// the consumer side and ports.EmailQueuer for producers.
type Queue struct {
	client   API
	queueURL string
	logger   *zap.Logger
}

// NewQueue creates an adapter for one SQS queue
func NewQueue(client API, queueURL string, logger *zap.Logger) *Queue {
	return &Queue{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Delete acknowledges a consumed message
func (q *Queue) Delete(ctx context.Context, receiptToken string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptToken),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message from queue: %w", err)
	}
	return nil
}

// QueueEmail enqueues an email for the delivery consumer
func (q *Queue) QueueEmail(ctx context.Context, req email.SendRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid email request: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	result, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to queue email: %w", err)
	}

	q.logger.Info("Queued email",
		zap.String("messageID", aws.ToString(result.MessageId)),
		zap.Strings("destinationAddresses", req.DestinationAddresses),
		zap.String("subject", req.Subject),
	)
	return nil
}
