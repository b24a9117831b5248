package handlers

import (
	"context"

	"clubmanager/domain/club"
	clubevents "clubmanager/domain/events"
	"clubmanager/pkg/observability"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Notifier sends the emails triggered by a member joining a club
type Notifier interface {
	NotifyManager(ctx context.Context, joined club.Member) (bool, error)
	WelcomeMember(ctx context.Context, joined club.Member) error
}

// MemberJoinedHandler reacts to MEMBER_JOINED_CLUB events from the bus
type MemberJoinedHandler struct {
	notifier Notifier
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewMemberJoinedHandler creates the handler
func NewMemberJoinedHandler(notifier Notifier, tracer *observability.Tracer, logger *zap.Logger) *MemberJoinedHandler {
	return &MemberJoinedHandler{
		notifier: notifier,
		tracer:   tracer,
		logger:   logger,
	}
}

// NotifyManager emails the club manager about the new member
func (h *MemberJoinedHandler) NotifyManager(ctx context.Context, event events.CloudWatchEvent) error {
	member, err := h.decode(ctx, event)
	if err != nil {
		return err
	}

	return h.tracer.TraceFunction(ctx, "NotifyManager", func(ctx context.Context) error {
		sent, err := h.notifier.NotifyManager(ctx, member)
		if err != nil {
			return err
		}
		h.logger.Info("Processed member joined notification",
			zap.String("clubID", member.Club.ID),
			zap.String("userID", member.User.ID),
			zap.Bool("queued", sent),
		)
		return nil
	})
}

// WelcomeMember emails the member who joined
func (h *MemberJoinedHandler) WelcomeMember(ctx context.Context, event events.CloudWatchEvent) error {
	member, err := h.decode(ctx, event)
	if err != nil {
		return err
	}

	return h.tracer.TraceFunction(ctx, "WelcomeMember", func(ctx context.Context) error {
		return h.notifier.WelcomeMember(ctx, member)
	})
}

func (h *MemberJoinedHandler) decode(ctx context.Context, event events.CloudWatchEvent) (club.Member, error) {
	if event.DetailType != string(clubevents.MemberJoinedClub) {
		h.logger.Warn("Unexpected event detail type", zap.String("detailType", event.DetailType))
	}

	member, err := clubevents.DecodeMember(event.Detail)
	if err != nil {
		h.logger.Error("Discarding malformed member event",
			zap.String("eventID", event.ID),
			zap.Error(err),
		)
		return club.Member{}, err
	}
	h.tracer.AddAnnotation(ctx, "clubId", member.Club.ID)
	return member, nil
}
