package club

import (
	"strings"

	apperrors "clubmanager/pkg/errors"
	"clubmanager/pkg/utils"
)

// Visibility controls whether a club appears in public listings
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Club is a named group of members with a single designated manager.
// ID is immutable once the club has been created.
type Club struct {
	ID               string     `json:"id" dynamodbav:"id" validate:"required"`
	Name             string     `json:"name" dynamodbav:"name" validate:"required,min=3,max=64,clubname"`
	Sport            string     `json:"sport" dynamodbav:"sport" validate:"required"`
	Visibility       Visibility `json:"visibility" dynamodbav:"visibility" validate:"required,oneof=PRIVATE PUBLIC"`
	ManagerID        string     `json:"managerId" dynamodbav:"managerId" validate:"required"`
	ProfilePhotoPath string     `json:"profilePhotoPath,omitempty" dynamodbav:"profilePhotoUrlPath,omitempty"`
}

// Key identifies a club in the store
type Key struct {
	ID string `dynamodbav:"id"`
}

// Key returns the store key of the club
func (c Club) Key() Key {
	return Key{ID: c.ID}
}

// IsPublic reports whether the club is listed publicly
func (c Club) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

// Validate checks the club fields and returns a validation AppError on failure
func (c Club) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if err := utils.ValidateStruct(c); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

// ParseVisibility converts user input into a Visibility, defaulting to private
func ParseVisibility(s string) Visibility {
	if strings.EqualFold(s, string(VisibilityPublic)) {
		return VisibilityPublic
	}
	return VisibilityPrivate
}
