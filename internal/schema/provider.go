package schema

import (
	"encoding/json"
	"fmt"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/pkg/errors"
)

// providerWire mirrors the provider JSON. Pointers distinguish absent fields
// from zero values so required checks and defaults can be told apart.
type providerWire struct {
	ID           *int64            `json:"id"`
	Name         *string           `json:"name" validate:"required"`
	BioI18n      map[string]string `json:"bio_i18n" validate:"required"`
	AvatarURL    *string           `json:"avatar_url"`
	Verified     *bool             `json:"verified"`
	Languages    []string          `json:"languages" validate:"required"`
	Categories   []int64           `json:"categories" validate:"required"`
	CityID       *int64            `json:"city_id" validate:"required"`
	AreaIDs      []int64           `json:"area_ids" validate:"required"`
	PricingHint  *string           `json:"pricing_hint"`
	Availability *string           `json:"availability"`
	WhatsApp     *string           `json:"whatsapp"`
	Phone        *string           `json:"phone"`
	Rating       *float64          `json:"rating"`
	RatingCount  *int              `json:"rating_count" validate:"omitempty,min=0"`
}

func (w *providerWire) toDomain() *domain.Provider {
	p := &domain.Provider{
		ID:           w.ID,
		Name:         *w.Name,
		BioI18n:      domain.LocalizedText(w.BioI18n),
		AvatarURL:    w.AvatarURL,
		Languages:    w.Languages,
		Categories:   w.Categories,
		CityID:       *w.CityID,
		AreaIDs:      w.AreaIDs,
		PricingHint:  w.PricingHint,
		Availability: w.Availability,
		WhatsApp:     w.WhatsApp,
		Phone:        w.Phone,
	}
	if w.Verified != nil {
		p.Verified = *w.Verified
	}
	if w.Rating != nil {
		p.Rating = *w.Rating
	}
	if w.RatingCount != nil {
		p.RatingCount = *w.RatingCount
	}
	return p
}

// ParseProvider validates a single provider object. Missing verified, rating
// and rating_count default to false, 0 and 0.
func (v *Validator) ParseProvider(data []byte) (*domain.Provider, error) {
	return v.parseProvider(data, "")
}

func (v *Validator) parseProvider(data []byte, path string) (*domain.Provider, error) {
	var wire providerWire
	if err := decode(data, &wire, path); err != nil {
		return nil, err
	}
	if err := rejectNullDefaults(data, path); err != nil {
		return nil, err
	}
	if err := v.validate.Struct(&wire); err != nil {
		return nil, toValidationError(err, path)
	}
	return wire.toDomain(), nil
}

// defaultedProviderFields may be omitted but not sent as null.
var defaultedProviderFields = []string{"verified", "rating", "rating_count"}

func rejectNullDefaults(data []byte, path string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	for _, name := range defaultedProviderFields {
		if raw, ok := fields[name]; ok && string(raw) == "null" {
			field := joinPath(path, name)
			return errors.NewValidationError(fmt.Sprintf("%s: expected a value, got null", displayField(field)), field, nil)
		}
	}
	return nil
}

// ParseProviders validates an array of providers. Element failures carry an
// index path such as "[2].city_id".
func (v *Validator) ParseProviders(data []byte) ([]*domain.Provider, error) {
	var raw []json.RawMessage
	if err := decode(data, &raw, ""); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.NewValidationError("expected an array of providers, got null", "", nil)
	}

	providers := make([]*domain.Provider, 0, len(raw))
	for i, item := range raw {
		p, err := v.parseProvider(item, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func ParseProvider(data []byte) (*domain.Provider, error) {
	return Default().ParseProvider(data)
}

func ParseProviders(data []byte) ([]*domain.Provider, error) {
	return Default().ParseProviders(data)
}
