package handlers

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	apperrors "clubmanager/pkg/errors"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// PhotoRecorder stores the profile photo path of a club
type PhotoRecorder interface {
	SetClubPhoto(ctx context.Context, clubID, photoPath string) error
}

// ProfilePhotoHandler reacts to uploads under the club profile photo prefix
type ProfilePhotoHandler struct {
	recorder PhotoRecorder
	prefix   string
	logger   *zap.Logger
}

// NewProfilePhotoHandler creates the handler
func NewProfilePhotoHandler(recorder PhotoRecorder, prefix string, logger *zap.Logger) *ProfilePhotoHandler {
	return &ProfilePhotoHandler{
		recorder: recorder,
		prefix:   prefix,
		logger:   logger,
	}
}

// Handle records the photo of every uploaded object. Uploads for clubs that do
// not exist are skipped.
func (h *ProfilePhotoHandler) Handle(ctx context.Context, event events.S3Event) error {
	for _, record := range event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return fmt.Errorf("invalid object key %q: %w", record.S3.Object.Key, err)
		}

		clubID := ClubIDFromObjectKey(key, h.prefix)
		if clubID == "" {
			h.logger.Warn("Ignoring object outside the profile photo prefix", zap.String("key", key))
			continue
		}

		err = h.recorder.SetClubPhoto(ctx, clubID, key)
		if apperrors.IsNotFound(err) {
			h.logger.Warn("Profile photo uploaded for unknown club",
				zap.String("clubID", clubID),
				zap.String("key", key),
			)
			continue
		}
		if err != nil {
			h.logger.Error("Failed to set club photo",
				zap.String("clubID", clubID),
				zap.String("key", key),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// ClubIDFromObjectKey strips the folder prefix and the file extension
func ClubIDFromObjectKey(key, prefix string) string {
	if !strings.HasPrefix(key, prefix) {
		return ""
	}
	name := strings.TrimPrefix(key, prefix)
	return strings.TrimSuffix(name, path.Ext(name))
}
