package domain

// LeadRequest is a client-submitted service request. Its lifecycle lives on
// the server; the client only creates it.
type LeadRequest struct {
	CategoryID    int64   `json:"category_id" validate:"gt=0"`
	CityID        int64   `json:"city_id" validate:"gt=0"`
	AreaIDs       []int64 `json:"area_ids" validate:"dive,gt=0"`
	Description   string  `json:"description"`
	PreferredTime *string `json:"preferred_time,omitempty"`
}

// LeadCreated is the server acknowledgement for a new lead.
type LeadCreated struct {
	ID int64 `json:"id"`
}
