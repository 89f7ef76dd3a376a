package schema

import (
	"encoding/json"
	"strings"

	"github.com/menna-app/menna-go/internal/domain"
)

type reviewWire struct {
	LeadID     *int64  `json:"lead_id" validate:"required"`
	ProviderID *int64  `json:"provider_id" validate:"required"`
	Rating     *int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment"`
}

// ParseReview validates a review body; rating must lie in [1,5].
func (v *Validator) ParseReview(data []byte) (*domain.Review, error) {
	var wire reviewWire
	if err := decode(data, &wire, ""); err != nil {
		return nil, err
	}
	if err := v.validate.Struct(&wire); err != nil {
		return nil, toValidationError(err, "")
	}

	review := &domain.Review{
		LeadID:     *wire.LeadID,
		ProviderID: *wire.ProviderID,
		Rating:     *wire.Rating,
		Comment:    wire.Comment,
	}
	if err := v.ValidateReview(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (v *Validator) ValidateReview(review *domain.Review) error {
	if review == nil {
		return toValidationError(errNilPayload, "")
	}
	return v.Struct(review)
}

// ParseReviewCreated reads the POST /reviews body. Its shape is left to the
// server, so anything that is not a JSON object yields an empty result.
func (v *Validator) ParseReviewCreated(data []byte) *domain.ReviewCreated {
	created := &domain.ReviewCreated{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return created
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return created
	}
	created.Raw = raw

	if n, ok := raw["id"].(float64); ok && n == float64(int64(n)) {
		id := int64(n)
		created.ID = &id
	}
	return created
}

func ParseReview(data []byte) (*domain.Review, error) {
	return Default().ParseReview(data)
}

func ValidateReview(review *domain.Review) error {
	return Default().ValidateReview(review)
}

func ParseReviewCreated(data []byte) *domain.ReviewCreated {
	return Default().ParseReviewCreated(data)
}
