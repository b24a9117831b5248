package handlers

import (
	"context"
	"net/http"

	"clubmanager/application/ports"
	"clubmanager/domain/club"
	"clubmanager/pkg/auth"
	"clubmanager/pkg/common"
	apperrors "clubmanager/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClubService is the part of the membership service exposed over HTTP
type ClubService interface {
	CreateClubWithManager(ctx context.Context, c club.Club, manager club.User) (club.Club, error)
	GetClub(ctx context.Context, clubID string) (club.Club, error)
	JoinClub(ctx context.Context, clubID string, user club.User) (club.Member, error)
	DeleteClubCascade(ctx context.Context, clubID string) error
	ListPublicClubs(ctx context.Context, opts ports.PageOptions) (ports.Page[club.Club], error)
	ListClubsManagedBy(ctx context.Context, userID string) ([]club.Club, error)
	ListMembershipsForUser(ctx context.Context, userID string) ([]club.Member, error)
	GetMember(ctx context.Context, clubID, userID string) (club.Member, error)
}

// ClubHandler handles club-related HTTP requests
type ClubHandler struct {
	service      ClubService
	errorHandler *apperrors.ErrorHandler
	logger       *zap.Logger
}

// NewClubHandler creates a new club handler
func NewClubHandler(service ClubService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *ClubHandler {
	return &ClubHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// CreateClubRequest represents the request body for creating a club
type CreateClubRequest struct {
	Name       string `json:"name"`
	Sport      string `json:"sport"`
	Visibility string `json:"visibility,omitempty"`
}

// ListPublicClubs handles GET /clubs
func (h *ClubHandler) ListPublicClubs(w http.ResponseWriter, r *http.Request) {
	opts, err := common.ExtractPageOptions(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	page, err := h.service.ListPublicClubs(r.Context(), opts)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// CreateClub handles POST /clubs. The caller becomes the club's manager.
func (h *ClubHandler) CreateClub(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	var req CreateClubRequest
	if err := common.ParseJSONBody(w, r, &req); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	created, err := h.service.CreateClubWithManager(r.Context(), club.Club{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Sport:      req.Sport,
		Visibility: club.ParseVisibility(req.Visibility),
	}, caller)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("Club created",
		zap.String("clubID", created.ID),
		zap.String("managerID", caller.ID),
	)
	common.RespondJSON(w, http.StatusCreated, created)
}

// JoinClub handles POST /clubs/{clubId}/join
func (h *ClubHandler) JoinClub(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	member, err := h.service.JoinClub(r.Context(), chi.URLParam(r, "clubId"), caller)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, member.WithoutKeys())
}

// GetMember handles GET /clubs/{clubId}/members/{userId}
func (h *ClubHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.GetMember(r.Context(), chi.URLParam(r, "clubId"), chi.URLParam(r, "userId"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, member)
}

// DeleteClub handles DELETE /clubs/{clubId}. Only the manager may delete a club.
func (h *ClubHandler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	clubID := chi.URLParam(r, "clubId")
	existing, err := h.service.GetClub(r.Context(), clubID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if existing.ManagerID != caller.ID {
		h.errorHandler.Handle(w, r, apperrors.NewForbiddenError("only the club manager can delete the club"))
		return
	}

	if err := h.service.DeleteClubCascade(r.Context(), clubID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("Club deleted", zap.String("clubID", clubID), zap.String("managerID", caller.ID))
	common.RespondNoContent(w)
}

func callerFrom(r *http.Request) (club.User, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return club.User{}, false
	}
	return club.User{
		ID:       identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
		Name:     identity.Name,
	}, true
}
