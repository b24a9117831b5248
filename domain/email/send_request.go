package email

import "clubmanager/pkg/utils"

// SendRequest is a queued outbound email
type SendRequest struct {
	FromAddress          string   `json:"fromAddress" validate:"required,email"`
	DestinationAddresses []string `json:"destinationAddresses" validate:"required,min=1,dive,email"`
	Subject              string   `json:"subject" validate:"required"`
	BodyHTML             string   `json:"bodyHtml"`
}

// Validate checks that the request can be handed to a transport
func (r SendRequest) Validate() error {
	return utils.ValidateStruct(r)
}
