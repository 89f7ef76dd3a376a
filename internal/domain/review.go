package domain

// Review rates a provider for a delivered lead.
type Review struct {
	LeadID     int64   `json:"lead_id" validate:"gt=0"`
	ProviderID int64   `json:"provider_id" validate:"gt=0"`
	Rating     int     `json:"rating" validate:"min=1,max=5"`
	Comment    *string `json:"comment,omitempty"`
}

// ReviewCreated is the acknowledgement body. The backend sends {"id": n} but
// the contract leaves it open, so the raw body is kept too.
type ReviewCreated struct {
	ID  *int64         `json:"id,omitempty"`
	Raw map[string]any `json:"-"`
}
