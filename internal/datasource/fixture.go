package datasource

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/schema"
	"github.com/menna-app/menna-go/pkg/errors"
)

//go:embed data/fixtures.json
var fixturesJSON []byte

type fixtureFile struct {
	Providers json.RawMessage   `json:"providers"`
	Inbox     []json.RawMessage `json:"inbox"`
}

// Fixture serves the bundled sample providers and dashboard lead. Records are
// validated on load like any server response.
type Fixture struct {
	providers []*domain.Provider
	inbox     []*domain.LeadRequest
}

func LoadFixture() (*Fixture, error) {
	return ParseFixture(fixturesJSON)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var file fixtureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	providers, err := schema.ParseProviders(file.Providers)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture providers: %w", err)
	}

	inbox := make([]*domain.LeadRequest, 0, len(file.Inbox))
	for i, raw := range file.Inbox {
		lead, err := schema.ParseLeadRequest(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid fixture lead %d: %w", i, err)
		}
		inbox = append(inbox, lead)
	}

	return &Fixture{providers: providers, inbox: inbox}, nil
}

// ListProviders filters and sorts the fixtures the way the backend would.
func (f *Fixture) ListProviders(_ context.Context, filter domain.ProviderFilter) ([]*domain.Provider, error) {
	out := make([]*domain.Provider, 0, len(f.providers))
	for _, p := range f.providers {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	domain.SortProviders(out, filter.Sort)
	return out, nil
}

func (f *Fixture) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	for _, p := range f.providers {
		if p.IDValue() == id {
			return p, nil
		}
	}
	return nil, errors.NewNotFoundError("provider", "fixture://providers/"+strconv.FormatInt(id, 10))
}

func (f *Fixture) Inbox(_ context.Context) ([]*domain.LeadRequest, error) {
	out := make([]*domain.LeadRequest, len(f.inbox))
	copy(out, f.inbox)
	return out, nil
}
