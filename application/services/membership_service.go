package services

import (
	"context"
	"fmt"
	"strings"

	"clubmanager/application/ports"
	"clubmanager/domain/club"
	apperrors "clubmanager/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// profilePhotoAttribute is the stored name of Club.ProfilePhotoPath
const profilePhotoAttribute = "profilePhotoUrlPath"

// MembershipService owns the club and member records.
//
// Member records carry snapshots of the club and user taken at write time.
// Nothing here refreshes those snapshots when a club changes later.
type MembershipService struct {
	clubs   ports.ClubStore
	members ports.MemberStore
	writer  ports.AtomicWriter
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	clubs ports.ClubStore,
	members ports.MemberStore,
	writer ports.AtomicWriter,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		clubs:   clubs,
		members: members,
		writer:  writer,
		logger:  logger,
		tracer:  otel.Tracer("clubmanager/membership"),
	}
}

// CreateClubWithManager stores the club and its manager membership in one
// atomic write. The club put requires that the id is not taken yet.
func (s *MembershipService) CreateClubWithManager(ctx context.Context, c club.Club, manager club.User) (club.Club, error) {
	ctx, span := s.tracer.Start(ctx, "membership.create_club",
		trace.WithAttributes(attribute.String("club.id", c.ID), attribute.String("user.id", manager.ID)))
	defer span.End()

	c.Name = strings.TrimSpace(c.Name)
	c.ManagerID = manager.ID
	if err := c.Validate(); err != nil {
		return club.Club{}, err
	}
	if manager.ID == "" {
		return club.Club{}, apperrors.NewValidationError("manager id is required")
	}

	ops := []ports.Operation{
		ports.PutOp(ports.KindClub, c, ports.PreconditionMustNotExist),
		ports.PutOp(ports.KindMember, club.NewMember(c, manager, club.RoleManager), ports.PreconditionNone),
	}
	if err := s.writer.ExecuteAtomic(ctx, ops); err != nil {
		recordSpanError(span, err)
		return club.Club{}, fmt.Errorf("failed to create club: %w", err)
	}

	s.logger.Info("Created club",
		zap.String("clubID", c.ID),
		zap.String("managerID", manager.ID),
		zap.String("visibility", string(c.Visibility)),
	)
	return c, nil
}

// GetClub reads a club by id
func (s *MembershipService) GetClub(ctx context.Context, clubID string) (club.Club, error) {
	return s.clubs.Get(ctx, club.Key{ID: clubID})
}

// JoinClub adds the user to the club as a player. Rejoining overwrites the
// existing member record.
func (s *MembershipService) JoinClub(ctx context.Context, clubID string, user club.User) (club.Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.join_club",
		trace.WithAttributes(attribute.String("club.id", clubID), attribute.String("user.id", user.ID)))
	defer span.End()

	c, err := s.clubs.Get(ctx, club.Key{ID: clubID})
	if err != nil {
		recordSpanError(span, err)
		return club.Member{}, err
	}

	member := club.NewMember(c, user, club.RolePlayer)
	if err := s.members.Put(ctx, member, ports.PreconditionNone); err != nil {
		recordSpanError(span, err)
		return club.Member{}, fmt.Errorf("failed to join club: %w", err)
	}

	s.logger.Info("User joined club",
		zap.String("clubID", clubID),
		zap.String("userID", user.ID),
	)
	return member, nil
}

// DeleteClubCascade deletes the club and every member record found for it in
// one atomic write. Members that join after the member query has run are not
// part of that write and survive the delete.
func (s *MembershipService) DeleteClubCascade(ctx context.Context, clubID string) error {
	ctx, span := s.tracer.Start(ctx, "membership.delete_club",
		trace.WithAttributes(attribute.String("club.id", clubID)))
	defer span.End()

	members, err := s.allMembers(ctx, ports.IndexMembersByClub, clubID)
	if err != nil {
		recordSpanError(span, err)
		return err
	}

	ops := make([]ports.Operation, 0, len(members)+1)
	ops = append(ops, ports.DeleteOp(ports.KindClub, club.Key{ID: clubID}, ports.PreconditionNone))
	for _, m := range members {
		ops = append(ops, ports.DeleteOp(ports.KindMember, m.Key(), ports.PreconditionNone))
	}
	span.SetAttributes(attribute.Int("member.count", len(members)))

	if err := s.writer.ExecuteAtomic(ctx, ops); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("failed to delete club: %w", err)
	}

	s.logger.Info("Deleted club",
		zap.String("clubID", clubID),
		zap.Int("memberCount", len(members)),
	)
	return nil
}

// ListPublicClubs returns one page of public clubs
func (s *MembershipService) ListPublicClubs(ctx context.Context, opts ports.PageOptions) (ports.Page[club.Club], error) {
	page, err := s.clubs.QueryByIndex(ctx, ports.IndexClubsByVisibility, string(club.VisibilityPublic), opts)
	if err != nil {
		return ports.Page[club.Club]{}, err
	}
	if page.Items == nil {
		page.Items = []club.Club{}
	}
	return page, nil
}

// ListClubsManagedBy returns every club the user manages. The result is not
// paged.
func (s *MembershipService) ListClubsManagedBy(ctx context.Context, userID string) ([]club.Club, error) {
	clubs := []club.Club{}
	cursor := ""
	for {
		page, err := s.clubs.QueryByIndex(ctx, ports.IndexClubsByManager, userID, ports.PageOptions{Cursor: cursor})
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, page.Items...)
		if page.NextCursor == "" {
			return clubs, nil
		}
		cursor = page.NextCursor
	}
}

// ListMembershipsForUser returns every member record of the user
func (s *MembershipService) ListMembershipsForUser(ctx context.Context, userID string) ([]club.Member, error) {
	members, err := s.allMembers(ctx, ports.IndexMembersByUser, userID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i] = members[i].WithoutKeys()
	}
	return members, nil
}

// GetMember reads one member record without its duplicated key attributes
func (s *MembershipService) GetMember(ctx context.Context, clubID, userID string) (club.Member, error) {
	m, err := s.members.Get(ctx, club.MemberKey{ClubID: clubID, UserID: userID})
	if err != nil {
		return club.Member{}, err
	}
	return m.WithoutKeys(), nil
}

// SetClubPhoto records the storage path of the club's profile photo
func (s *MembershipService) SetClubPhoto(ctx context.Context, clubID, photoPath string) error {
	err := s.clubs.Update(ctx, club.Key{ID: clubID},
		map[string]interface{}{profilePhotoAttribute: photoPath},
		ports.PreconditionMustExist,
	)
	if apperrors.IsConditionFailed(err) {
		return apperrors.NewNotFoundError("club").WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("failed to set club photo: %w", err)
	}

	s.logger.Info("Set club photo",
		zap.String("clubID", clubID),
		zap.String("path", photoPath),
	)
	return nil
}

func (s *MembershipService) allMembers(ctx context.Context, index, value string) ([]club.Member, error) {
	members := []club.Member{}
	cursor := ""
	for {
		page, err := s.members.QueryByIndex(ctx, index, value, ports.PageOptions{Cursor: cursor})
		if err != nil {
			return nil, fmt.Errorf("failed to query members: %w", err)
		}
		members = append(members, page.Items...)
		if page.NextCursor == "" {
			return members, nil
		}
		cursor = page.NextCursor
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
