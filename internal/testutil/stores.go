// Package testutil provides in-memory stores and a fake billing provider
// with the same error kinds as the database and Stripe gateways.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Accounts struct {
	mu        sync.Mutex
	byEmail   map[string]models.Account
	passwords map[string]string
	// Err, when set, is returned by every call.
	Err error
}

func NewAccounts() *Accounts {
	return &Accounts{byEmail: map[string]models.Account{}, passwords: map[string]string{}}
}

func (a *Accounts) SignUp(_ context.Context, email, password string) (*models.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := a.byEmail[email]; ok {
		return nil, apperr.New(apperr.KindConflict, "account already exists")
	}
	acc := models.Account{ID: uuid.NewString(), Email: email, CreatedAt: time.Now()}
	a.byEmail[email] = acc
	a.passwords[email] = password
	return &acc, nil
}

func (a *Accounts) SignIn(_ context.Context, email, password string) (*models.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	acc, ok := a.byEmail[email]
	if !ok || a.passwords[email] != password {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}
	return &acc, nil
}

type Profiles struct {
	mu   sync.Mutex
	rows map[string]models.Profile
	// Writes counts successful Update calls.
	Writes int
}

func NewProfiles() *Profiles {
	return &Profiles{rows: map[string]models.Profile{}}
}

// Put stores p as-is, for seeding.
func (s *Profiles) Put(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.rows[p.ID] = p
}

// Remove deletes a row, for simulating data drift.
func (s *Profiles) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
}

func (s *Profiles) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.ID]; ok {
		return apperr.New(apperr.KindConflict, "profile already exists")
	}
	for _, existing := range s.rows {
		if existing.Email == p.Email {
			return apperr.New(apperr.KindConflict, "profile already exists")
		}
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.rows[p.ID] = *p
	return nil
}

func (s *Profiles) Get(_ context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "profile not found")
	}
	return &p, nil
}

func (s *Profiles) GetPrivileged(ctx context.Context, id string) (*models.Profile, error) {
	return s.Get(ctx, id)
}

func (s *Profiles) List(_ context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Profile, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Profiles) Update(_ context.Context, id string, changes models.ProfileChanges) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "profile not found")
	}
	if changes.FullName != nil {
		p.FullName = *changes.FullName
	}
	if changes.Email != nil {
		p.Email = *changes.Email
	}
	p.UpdatedAt = time.Now()
	s.rows[id] = p
	s.Writes++
	return &p, nil
}

type Products struct {
	mu   sync.Mutex
	rows map[string]models.Product
}

func NewProducts() *Products {
	return &Products{rows: map[string]models.Product{}}
}

func (s *Products) Put(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.ID] = p
}

func (s *Products) List(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (s *Products) Get(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	return &p, nil
}

func (s *Products) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.rows[p.ID] = *p
	return nil
}

func (s *Products) Update(_ context.Context, id string, in models.ProductInput) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Features = datatypes.JSONSlice[string](in.Features)
	p.UpdatedAt = time.Now()
	s.rows[id] = p
	return &p, nil
}

func (s *Products) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	delete(s.rows, id)
	return nil
}

func (s *Products) SetStripePriceID(_ context.Context, id, priceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok || p.HasStripePrice() {
		return false, nil
	}
	p.StripePriceID = &priceID
	s.rows[id] = p
	return true, nil
}

type Subscriptions struct {
	mu   sync.Mutex
	rows map[string]models.Subscription
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{rows: map[string]models.Subscription{}}
}

func (s *Subscriptions) Put(sub models.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sub.ID] = sub
}

// Row returns a copy of a stored subscription.
func (s *Subscriptions) Row(id string) (models.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.rows[id]
	return sub, ok
}

func (s *Subscriptions) ListByUser(_ context.Context, userID string) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Subscription{}
	for _, sub := range s.rows {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Subscriptions) Get(_ context.Context, id string) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.rows[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "subscription not found")
	}
	return &sub, nil
}

func (s *Subscriptions) Create(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	s.rows[sub.ID] = *sub
	return nil
}

func (s *Subscriptions) UpdateStatus(_ context.Context, id, status string, endDate *time.Time) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.rows[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "subscription not found")
	}
	sub.Status = status
	if endDate != nil {
		end := *endDate
		sub.EndDate = &end
	}
	sub.UpdatedAt = time.Now()
	s.rows[id] = sub
	return &sub, nil
}

func (s *Subscriptions) SetStatusByStripeID(_ context.Context, stripeID, status string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sub := range s.rows {
		if sub.StripeSubscriptionID != nil && *sub.StripeSubscriptionID == stripeID {
			sub.Status = status
			s.rows[id] = sub
			n++
		}
	}
	return n, nil
}
