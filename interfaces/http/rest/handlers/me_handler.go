package handlers

import (
	"net/http"

	"clubmanager/pkg/common"
	apperrors "clubmanager/pkg/errors"

	"go.uber.org/zap"
)

// MeHandler serves the caller's own profile, clubs and memberships
type MeHandler struct {
	service      ClubService
	errorHandler *apperrors.ErrorHandler
	logger       *zap.Logger
}

// NewMeHandler creates a new handler for /me routes
func NewMeHandler(service ClubService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *MeHandler {
	return &MeHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GetProfile handles GET /me
func (h *MeHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}
	common.RespondJSON(w, http.StatusOK, caller)
}

// ListManagedClubs handles GET /me/clubs
func (h *MeHandler) ListManagedClubs(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	clubs, err := h.service.ListClubsManagedBy(r.Context(), caller.ID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.logger.Debug("Fetched managed clubs", zap.String("userID", caller.ID), zap.Int("count", len(clubs)))
	common.RespondJSON(w, http.StatusOK, clubs)
}

// ListMemberships handles GET /me/memberships
func (h *MeHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError(""))
		return
	}

	members, err := h.service.ListMembershipsForUser(r.Context(), caller.ID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, members)
}
