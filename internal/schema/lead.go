package schema

import (
	"github.com/menna-app/menna-go/internal/domain"
)

type leadRequestWire struct {
	CategoryID    *int64  `json:"category_id" validate:"required"`
	CityID        *int64  `json:"city_id" validate:"required"`
	AreaIDs       []int64 `json:"area_ids" validate:"required"`
	Description   *string `json:"description" validate:"required"`
	PreferredTime *string `json:"preferred_time"`
}

type leadCreatedWire struct {
	ID *int64 `json:"id" validate:"required"`
}

// ParseLeadRequest validates an inbound lead request body.
func (v *Validator) ParseLeadRequest(data []byte) (*domain.LeadRequest, error) {
	var wire leadRequestWire
	if err := decode(data, &wire, ""); err != nil {
		return nil, err
	}
	if err := v.validate.Struct(&wire); err != nil {
		return nil, toValidationError(err, "")
	}

	lead := &domain.LeadRequest{
		CategoryID:    *wire.CategoryID,
		CityID:        *wire.CityID,
		AreaIDs:       wire.AreaIDs,
		Description:   *wire.Description,
		PreferredTime: wire.PreferredTime,
	}
	if err := v.ValidateLeadRequest(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// ValidateLeadRequest checks an outgoing lead without modifying it.
func (v *Validator) ValidateLeadRequest(lead *domain.LeadRequest) error {
	if lead == nil {
		return toValidationError(errNilPayload, "")
	}
	return v.Struct(lead)
}

// ParseLeadCreated validates the {"id": n} acknowledgement of POST /leads.
func (v *Validator) ParseLeadCreated(data []byte) (*domain.LeadCreated, error) {
	var wire leadCreatedWire
	if err := decode(data, &wire, ""); err != nil {
		return nil, err
	}
	if err := v.validate.Struct(&wire); err != nil {
		return nil, toValidationError(err, "")
	}
	return &domain.LeadCreated{ID: *wire.ID}, nil
}

func ParseLeadRequest(data []byte) (*domain.LeadRequest, error) {
	return Default().ParseLeadRequest(data)
}

func ValidateLeadRequest(lead *domain.LeadRequest) error {
	return Default().ValidateLeadRequest(lead)
}

func ParseLeadCreated(data []byte) (*domain.LeadCreated, error) {
	return Default().ParseLeadCreated(data)
}
