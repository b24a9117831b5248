package handlers

import (
	"context"
	"fmt"

	"clubmanager/domain/club"
	"clubmanager/infrastructure/persistence/dynamodb"
	"clubmanager/pkg/observability"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// MemberForwarder publishes newly inserted members to the event bus
type MemberForwarder interface {
	ForwardNewMembers(ctx context.Context, members []club.Member) error
}

// NewMemberStreamHandler consumes the members table stream
type NewMemberStreamHandler struct {
	forwarder MemberForwarder
	tracer    *observability.Tracer
	logger    *zap.Logger
}

// NewNewMemberStreamHandler creates the stream handler
func NewNewMemberStreamHandler(forwarder MemberForwarder, tracer *observability.Tracer, logger *zap.Logger) *NewMemberStreamHandler {
	return &NewMemberStreamHandler{
		forwarder: forwarder,
		tracer:    tracer,
		logger:    logger,
	}
}

// Handle forwards every INSERT record of the batch. Modifications and removals
// are ignored. A returned error makes the runtime retry the whole batch.
func (h *NewMemberStreamHandler) Handle(ctx context.Context, event events.DynamoDBEvent) error {
	members := make([]club.Member, 0, len(event.Records))
	for _, record := range event.Records {
		if events.DynamoDBOperationType(record.EventName) != events.DynamoDBOperationTypeInsert || len(record.Change.NewImage) == 0 {
			continue
		}

		var m club.Member
		if err := dynamodb.UnmarshalStreamImage(record.Change.NewImage, &m); err != nil {
			return fmt.Errorf("stream record %s: %w", record.EventID, err)
		}
		members = append(members, m)
	}

	h.logger.Debug("Processing member stream batch",
		zap.Int("records", len(event.Records)),
		zap.Int("inserts", len(members)),
	)
	if len(members) == 0 {
		return nil
	}

	return h.tracer.TraceFunction(ctx, "ForwardNewMembers", func(ctx context.Context) error {
		return h.forwarder.ForwardNewMembers(ctx, members)
	})
}
