package domain

import (
	"net/url"
	"sort"
	"strconv"
)

// Provider is a service professional as listed in the directory.
type Provider struct {
	ID           *int64        `json:"id,omitempty"`
	Name         string        `json:"name"`
	BioI18n      LocalizedText `json:"bio_i18n"`
	AvatarURL    *string       `json:"avatar_url,omitempty"`
	Verified     bool          `json:"verified"`
	Languages    []string      `json:"languages"`
	Categories   []int64       `json:"categories"`
	CityID       int64         `json:"city_id"`
	AreaIDs      []int64       `json:"area_ids"`
	PricingHint  *string       `json:"pricing_hint,omitempty"`
	Availability *string       `json:"availability,omitempty"`
	WhatsApp     *string       `json:"whatsapp,omitempty"`
	Phone        *string       `json:"phone,omitempty"`
	Rating       float64       `json:"rating"`
	RatingCount  int           `json:"rating_count"`
}

// IDValue returns the provider id or 0 when the server did not send one.
func (p *Provider) IDValue() int64 {
	if p == nil || p.ID == nil {
		return 0
	}
	return *p.ID
}

// Bio returns the biography in l, falling back to English.
func (p *Provider) Bio(l Locale) string {
	if p == nil {
		return ""
	}
	return p.BioI18n.In(l)
}

func (p *Provider) WhatsAppURL() string {
	return "https://wa.me/" + deref(p.WhatsApp)
}

func (p *Provider) CallURL() string {
	return "tel:" + deref(p.Phone)
}

func (p *Provider) Speaks(language string) bool {
	for _, l := range p.Languages {
		if l == language {
			return true
		}
	}
	return false
}

func (p *Provider) OffersCategory(categoryID int64) bool {
	return containsID(p.Categories, categoryID)
}

// CoversAnyArea reports whether the provider serves at least one of areaIDs.
func (p *Provider) CoversAnyArea(areaIDs []int64) bool {
	for _, id := range areaIDs {
		if containsID(p.AreaIDs, id) {
			return true
		}
	}
	return false
}

// ProviderFilter holds the optional listing filters. Unset fields are not sent.
type ProviderFilter struct {
	CategoryID *int64
	CityID     *int64
	AreaIDs    []int64
	Verified   *bool
	Language   string
	Sort       string
	Extra      map[string]string
}

// IsEmpty reports whether no filter would be sent.
func (f ProviderFilter) IsEmpty() bool {
	return len(f.Query()) == 0
}

// Query renders the set filters as query parameters. Area ids use the
// backend's comma separated form.
func (f ProviderFilter) Query() url.Values {
	values := url.Values{}
	if f.CategoryID != nil {
		values.Set("category_id", strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.CityID != nil {
		values.Set("city_id", strconv.FormatInt(*f.CityID, 10))
	}
	if len(f.AreaIDs) > 0 {
		parts := make([]byte, 0, len(f.AreaIDs)*3)
		for i, id := range f.AreaIDs {
			if i > 0 {
				parts = append(parts, ',')
			}
			parts = strconv.AppendInt(parts, id, 10)
		}
		values.Set("area_ids", string(parts))
	}
	if f.Verified != nil {
		values.Set("verified", strconv.FormatBool(*f.Verified))
	}
	if f.Language != "" {
		values.Set("language", f.Language)
	}
	if f.Sort != "" {
		values.Set("sort", f.Sort)
	}
	for k, v := range f.Extra {
		if k != "" && values.Get(k) == "" {
			values.Set(k, v)
		}
	}
	return values
}

// Matches applies the filter locally, the way the backend does.
func (f ProviderFilter) Matches(p *Provider) bool {
	if p == nil {
		return false
	}
	if f.CategoryID != nil && !p.OffersCategory(*f.CategoryID) {
		return false
	}
	if f.CityID != nil && p.CityID != *f.CityID {
		return false
	}
	if len(f.AreaIDs) > 0 && !p.CoversAnyArea(f.AreaIDs) {
		return false
	}
	if f.Verified != nil && p.Verified != *f.Verified {
		return false
	}
	if f.Language != "" && !p.Speaks(f.Language) {
		return false
	}
	return true
}

func Int64Ptr(v int64) *int64 {
	return &v
}

func BoolPtr(v bool) *bool {
	return &v
}

func StringPtr(v string) *string {
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// SortProviders orders providers in place. "rating" sorts by rating, then
// rating count, both descending; any other key keeps the input order.
func SortProviders(providers []*Provider, key string) {
	if key != "rating" {
		return
	}
	sort.SliceStable(providers, func(i, j int) bool {
		if providers[i].Rating != providers[j].Rating {
			return providers[i].Rating > providers[j].Rating
		}
		return providers[i].RatingCount > providers[j].RatingCount
	})
}
