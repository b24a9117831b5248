package services

import (
	"context"
	"fmt"

	"clubmanager/application/ports"
	"clubmanager/domain/club"
	"clubmanager/domain/email"
	apperrors "clubmanager/pkg/errors"
	"clubmanager/pkg/sanitize"

	"go.uber.org/zap"
)

// MemberReader looks up member records
type MemberReader interface {
	GetMember(ctx context.Context, clubID, userID string) (club.Member, error)
}

// NotificationService queues the emails sent when a member joins a club
type NotificationService struct {
	members     MemberReader
	queuer      ports.EmailQueuer
	fromAddress string
	logger      *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(members MemberReader, queuer ports.EmailQueuer, fromAddress string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		members:     members,
		queuer:      queuer,
		fromAddress: fromAddress,
		logger:      logger,
	}
}

// NotifyManager emails the club's manager about the new member. It reports
// false without error when the manager has no member record.
func (s *NotificationService) NotifyManager(ctx context.Context, joined club.Member) (bool, error) {
	manager, err := s.members.GetMember(ctx, joined.Club.ID, joined.Club.ManagerID)
	if apperrors.IsNotFound(err) {
		s.logger.Warn("No manager found for club, no email will be sent",
			zap.String("clubID", joined.Club.ID),
			zap.String("managerID", joined.Club.ManagerID),
		)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up club manager: %w", err)
	}

	req := email.SendRequest{
		FromAddress:          s.fromAddress,
		DestinationAddresses: []string{manager.User.Email},
		Subject:              fmt.Sprintf("A new player has joined your club: %s!", joined.User.Email),
		BodyHTML:             sanitize.HTML(fmt.Sprintf("%s has joined your club %s.", joined.User.DisplayName(), joined.Club.Name)),
	}
	if err := s.queuer.QueueEmail(ctx, req); err != nil {
		return false, fmt.Errorf("failed to queue manager notification: %w", err)
	}

	s.logger.Info("Email queued for manager",
		zap.String("clubID", joined.Club.ID),
		zap.String("managerID", manager.User.ID),
		zap.String("userID", joined.User.ID),
	)
	return true, nil
}

// WelcomeMember emails the member who joined
func (s *NotificationService) WelcomeMember(ctx context.Context, joined club.Member) error {
	req := email.SendRequest{
		FromAddress:          s.fromAddress,
		DestinationAddresses: []string{joined.User.Email},
		Subject:              fmt.Sprintf("Welcome to %s!", joined.Club.Name),
		BodyHTML:             sanitize.HTML(fmt.Sprintf("You have joined the club %s.", joined.Club.Name)),
	}
	if err := s.queuer.QueueEmail(ctx, req); err != nil {
		return fmt.Errorf("failed to queue welcome email: %w", err)
	}

	s.logger.Info("Welcome email queued",
		zap.String("clubID", joined.Club.ID),
		zap.String("userID", joined.User.ID),
	)
	return nil
}
