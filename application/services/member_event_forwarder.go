package services

import (
	"context"
	"fmt"

	"clubmanager/application/ports"
	"clubmanager/domain/club"
	"clubmanager/domain/events"

	"go.uber.org/zap"
)

// MemberEventForwarder publishes MemberJoinedClub events for member records
// that have already been committed. A failed publish is returned so the
// stream redelivers the records.
type MemberEventForwarder struct {
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewMemberEventForwarder creates a new forwarder
func NewMemberEventForwarder(publisher ports.EventPublisher, logger *zap.Logger) *MemberEventForwarder {
	return &MemberEventForwarder{
		publisher: publisher,
		logger:    logger,
	}
}

// ForwardNewMembers publishes one event per member in a single publish call
func (f *MemberEventForwarder) ForwardNewMembers(ctx context.Context, members []club.Member) error {
	if len(members) == 0 {
		return nil
	}

	payloads := make([]interface{}, len(members))
	for i, m := range members {
		payloads[i] = events.NewMemberJoinedClub(m)
	}

	if err := f.publisher.Publish(ctx, events.MemberJoinedClub, payloads); err != nil {
		return fmt.Errorf("failed to forward new member events: %w", err)
	}

	f.logger.Debug("Processed new member events", zap.Int("count", len(members)))
	return nil
}
