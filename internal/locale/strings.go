package locale

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/schema"
	"github.com/menna-app/menna-go/pkg/errors"
)

//go:embed data/*.json
var tableFS embed.FS

// Strings is the fixed key structure every locale must fill in.
type Strings struct {
	Tagline  string         `json:"tagline" validate:"required"`
	Footer   string         `json:"footer" validate:"required"`
	Nav      NavStrings     `json:"nav"`
	Hero     HeroStrings    `json:"hero"`
	Filters  FilterStrings  `json:"filters"`
	CTAs     CTAStrings     `json:"ctas"`
	Rating   string         `json:"rating" validate:"required"`
	Labels   LabelStrings   `json:"labels"`
	Messages MessageStrings `json:"messages"`
}

type NavStrings struct {
	Home      string `json:"home" validate:"required"`
	Providers string `json:"providers" validate:"required"`
	Request   string `json:"request" validate:"required"`
	Dashboard string `json:"dashboard" validate:"required"`
	Login     string `json:"login" validate:"required"`
}

type HeroStrings struct {
	Title        string `json:"title" validate:"required"`
	Subtitle     string `json:"subtitle" validate:"required"`
	CTAPrimary   string `json:"ctaPrimary" validate:"required"`
	CTASecondary string `json:"ctaSecondary" validate:"required"`
}

type FilterStrings struct {
	Verified string `json:"verified" validate:"required"`
}

type CTAStrings struct {
	WhatsApp string `json:"whatsapp" validate:"required"`
	Call     string `json:"call" validate:"required"`
	View     string `json:"view" validate:"required"`
}

// LabelStrings are field captions used by the profile, request and dashboard views.
type LabelStrings struct {
	Category      string `json:"category" validate:"required"`
	City          string `json:"city" validate:"required"`
	Areas         string `json:"areas" validate:"required"`
	Languages     string `json:"languages" validate:"required"`
	Pricing       string `json:"pricing" validate:"required"`
	Availability  string `json:"availability" validate:"required"`
	Description   string `json:"description" validate:"required"`
	PreferredTime string `json:"preferredTime" validate:"required"`
	Verified      string `json:"verified" validate:"required"`
	Accept        string `json:"accept" validate:"required"`
	Catalog       string `json:"catalog" validate:"required"`
}

// MessageStrings are status lines shown after an action.
type MessageStrings struct {
	LeadSent       string `json:"leadSent" validate:"required"`
	LeadFailed     string `json:"leadFailed" validate:"required"`
	ReviewSent     string `json:"reviewSent" validate:"required"`
	ReviewFailed   string `json:"reviewFailed" validate:"required"`
	LoginSuccess   string `json:"loginSuccess" validate:"required"`
	LoginFailed    string `json:"loginFailed" validate:"required"`
	NoProviders    string `json:"noProviders" validate:"required"`
	NotFound       string `json:"notFound" validate:"required"`
	LoadFailed     string `json:"loadFailed" validate:"required"`
	EmptyInbox     string `json:"emptyInbox" validate:"required"`
	LocaleChanged  string `json:"localeChanged" validate:"required"`
	UnknownCommand string `json:"unknownCommand" validate:"required"`
	InvalidInput   string `json:"invalidInput" validate:"required"`
}

// Tables holds one string table per supported locale.
type Tables map[domain.Locale]*Strings

// LoadTables reads the embedded tables and fails if any locale is missing
// or any key is empty.
func LoadTables() (Tables, error) {
	tables := make(Tables, len(domain.SupportedLocales))
	for _, l := range domain.SupportedLocales {
		data, err := tableFS.ReadFile("data/" + l.String() + ".json")
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("missing string table for %s", l), "locale."+l.String()).WithCause(err)
		}
		s, err := ParseStrings(data)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid string table for %s", l), "locale."+l.String()).WithCause(err)
		}
		tables[l] = s
	}
	return tables, nil
}

// ParseStrings decodes a single table. Unknown keys are rejected so that a
// misspelled key is not silently left empty.
func ParseStrings(data []byte) (*Strings, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var s Strings
	if err := dec.Decode(&s); err != nil {
		return nil, errors.NewValidationError("malformed string table", "", nil).WithCause(err)
	}
	if err := schema.Default().Struct(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that tables covers every supported locale with complete strings.
func (t Tables) Validate() error {
	for _, l := range domain.SupportedLocales {
		s, ok := t[l]
		if !ok || s == nil {
			return errors.NewConfigError(fmt.Sprintf("missing string table for %s", l), "locale."+l.String())
		}
		if err := schema.Default().Struct(s); err != nil {
			return errors.NewConfigError(fmt.Sprintf("invalid string table for %s", l), "locale."+l.String()).WithCause(err)
		}
	}
	return nil
}
