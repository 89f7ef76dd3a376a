// Package stub is an in-memory implementation of the marketplace endpoints the
// client consumes. It backs local development and end-to-end tests.
package stub

import (
	"fmt"
	"strings"
	"sync"

	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/pkg/errors"
)

type user struct {
	ID           int64
	Email        string
	PasswordHash string
}

// Store holds providers, leads, reviews and users in memory.
type Store struct {
	mu sync.RWMutex

	catalog   *domain.Catalog
	providers map[int64]*domain.Provider
	order     []int64

	leads      map[int64]*domain.LeadRequest
	nextLeadID int64

	reviews      map[int64]*domain.Review
	nextReviewID int64

	users      map[string]*user
	nextUserID int64
}

// NewStore seeds a store with copies of providers. Providers without an id
// get the next free one.
func NewStore(catalog *domain.Catalog, providers []*domain.Provider) *Store {
	s := &Store{
		catalog:   catalog,
		providers: make(map[int64]*domain.Provider, len(providers)),
		leads:     make(map[int64]*domain.LeadRequest),
		reviews:   make(map[int64]*domain.Review),
		users:     make(map[string]*user),
	}

	var maxID int64
	for _, p := range providers {
		if id := p.IDValue(); id > maxID {
			maxID = id
		}
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		cp := copyProvider(p)
		if cp.ID == nil {
			maxID++
			cp.ID = domain.Int64Ptr(maxID)
		}
		s.providers[*cp.ID] = cp
		s.order = append(s.order, *cp.ID)
	}
	return s
}

func (s *Store) ListProviders(filter domain.ProviderFilter) []*domain.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Provider, 0, len(s.order))
	for _, id := range s.order {
		p := s.providers[id]
		if filter.Matches(p) {
			out = append(out, copyProvider(p))
		}
	}
	domain.SortProviders(out, filter.Sort)
	return out
}

func (s *Store) GetProvider(id int64) (*domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, errors.NewNotFoundError("provider", fmt.Sprintf("%s/%d", constants.APIConfig.ProvidersPath, id))
	}
	return copyProvider(p), nil
}

// CreateLead checks the category and location against the catalog and
// stores the lead under the next id.
func (s *Store) CreateLead(lead *domain.LeadRequest) (int64, error) {
	if s.catalog != nil {
		if s.catalog.Category(lead.CategoryID) == nil {
			return 0, errors.NewValidationError(fmt.Sprintf("unknown category %d", lead.CategoryID), "category_id", lead.CategoryID)
		}
		if err := s.catalog.ValidateLocation(lead.CityID, lead.AreaIDs); err != nil {
			return 0, errors.NewValidationError(err.Error(), "area_ids", lead.AreaIDs)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLeadID++
	stored := *lead
	stored.AreaIDs = append([]int64(nil), lead.AreaIDs...)
	s.leads[s.nextLeadID] = &stored
	return s.nextLeadID, nil
}

// CreateReview stores a review for an existing lead and provider and folds
// the rating into the provider's running average.
func (s *Store) CreateReview(review *domain.Review) (int64, error) {
	if review.Rating < constants.ReviewRating.Min || review.Rating > constants.ReviewRating.Max {
		return 0, errors.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", constants.ReviewRating.Min, constants.ReviewRating.Max),
			"rating", review.Rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[review.LeadID]; !ok {
		return 0, errors.NewValidationError("No valid contact", "lead_id", review.LeadID)
	}
	p, ok := s.providers[review.ProviderID]
	if !ok {
		return 0, errors.NewNotFoundError("provider", fmt.Sprintf("%s/%d", constants.APIConfig.ProvidersPath, review.ProviderID))
	}

	total := p.Rating*float64(p.RatingCount) + float64(review.Rating)
	p.RatingCount++
	p.Rating = total / float64(p.RatingCount)

	s.nextReviewID++
	stored := *review
	s.reviews[s.nextReviewID] = &stored
	return s.nextReviewID, nil
}

func (s *Store) AddUser(email, passwordHash string) (int64, error) {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return 0, errors.NewValidationError("email already registered", "email", email)
	}
	s.nextUserID++
	s.users[key] = &user{ID: s.nextUserID, Email: key, PasswordHash: passwordHash}
	return s.nextUserID, nil
}

func (s *Store) userByEmail(email string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[normalizeEmail(email)]
	return u, ok
}

func (s *Store) userByID(id int64) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) LeadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func copyProvider(p *domain.Provider) *domain.Provider {
	cp := *p
	if p.ID != nil {
		cp.ID = domain.Int64Ptr(*p.ID)
	}
	cp.Languages = append(make([]string, 0, len(p.Languages)), p.Languages...)
	cp.Categories = append(make([]int64, 0, len(p.Categories)), p.Categories...)
	cp.AreaIDs = append(make([]int64, 0, len(p.AreaIDs)), p.AreaIDs...)
	if p.BioI18n != nil {
		cp.BioI18n = make(domain.LocalizedText, len(p.BioI18n))
		for k, v := range p.BioI18n {
			cp.BioI18n[k] = v
		}
	}
	return &cp
}
