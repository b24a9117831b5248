package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"clubmanager/domain/events"
	apperrors "clubmanager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// maxEntriesPerCall is the PutEvents entry limit
const maxEntriesPerCall = 10

// API is the subset of the EventBridge client used by the publisher
type API interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher using AWS EventBridge
type Publisher struct {
	client       API
	eventBusName string
	source       string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client API, eventBusName, source string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		source:       source,
		logger:       logger,
	}
}

// Publish sends every payload as one event of the given detail type.
//
// Payloads beyond the per-call limit go out in further calls. Any rejected
// entry in any call fails the whole publish with a PublishFailedError; entries
// accepted before that are not withdrawn.
func (p *Publisher) Publish(ctx context.Context, detailType events.DetailType, payloads []interface{}) error {
	if len(payloads) == 0 {
		return nil
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(payloads))
	for i, payload := range payloads {
		detail, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal event %d: %w", i, err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(string(detailType)),
			Detail:       aws.String(string(detail)),
		})
	}

	failed := 0
	for start := 0; start < len(entries); start += maxEntriesPerCall {
		end := min(start+maxEntriesPerCall, len(entries))

		n, err := p.putEvents(ctx, detailType, entries[start:end])
		if err != nil {
			return err
		}
		failed += n
	}

	if failed > 0 {
		return &apperrors.PublishFailedError{FailedCount: failed, Total: len(entries)}
	}

	p.logger.Debug("Events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("detailType", string(detailType)),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}

// putEvents sends one call and returns how many entries were rejected
func (p *Publisher) putEvents(ctx context.Context, detailType events.DetailType, entries []types.PutEventsRequestEntry) (int, error) {
	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		p.logger.Error("Error publishing events to EventBridge",
			zap.Error(err),
			zap.String("detailType", string(detailType)),
			zap.Int("count", len(entries)),
		)
		return 0, fmt.Errorf("failed to publish events to EventBridge: %w", err)
	}

	if result.FailedEntryCount == 0 {
		return 0, nil
	}

	for i, entry := range result.Entries {
		if entry.ErrorCode != nil {
			p.logger.Error("Event rejected by EventBridge",
				zap.Int("entryIndex", i),
				zap.String("detailType", string(detailType)),
				zap.String("errorCode", aws.ToString(entry.ErrorCode)),
				zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
			)
		}
	}
	return int(result.FailedEntryCount), nil
}
