package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"enjez/internal/models"
	"enjez/internal/repository"

	"github.com/google/uuid"
)

var errStub = errors.New("stub failure")

type stubEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	failOn   map[string]bool
	calls    int
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.failOn[text] {
		return nil, errStub
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	if e.fallback != nil {
		return e.fallback, nil
	}
	return []float32{1, 0}, nil
}

func (e *stubEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type stubGenerator struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.answer, g.err
}

func (g *stubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type stubKnowledgeStore struct {
	mu        sync.Mutex
	records   map[string]*models.KnowledgeRecord
	order     []string
	upserts   int
	existsErr error
	listErr   error
}

func newStubKnowledgeStore(records ...*models.KnowledgeRecord) *stubKnowledgeStore {
	s := &stubKnowledgeStore{records: make(map[string]*models.KnowledgeRecord)}
	for _, r := range records {
		s.put(r)
	}
	return s
}

func (s *stubKnowledgeStore) put(rec *models.KnowledgeRecord) {
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
}

func (s *stubKnowledgeStore) Upsert(_ context.Context, rec *models.KnowledgeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	s.put(rec)
	return nil
}

func (s *stubKnowledgeStore) Exists(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return len(s.records) > 0, nil
}

func (s *stubKnowledgeStore) ListAll(context.Context) ([]*models.KnowledgeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*models.KnowledgeRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *stubKnowledgeStore) ListIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := append([]string(nil), s.order...)
	sort.Strings(ids)
	return ids, nil
}

func (s *stubKnowledgeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubKnowledgeStore) Get(id string) (*models.KnowledgeRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	return r, ok
}

func (s *stubKnowledgeStore) Upserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

type stubCatalog struct {
	mu       sync.Mutex
	services []*models.Service
	listErr  error
	created  []*models.Service
	updated  []*models.Service
}

func (c *stubCatalog) ListServices(context.Context) ([]*models.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]*models.Service(nil), c.services...), nil
}

func (c *stubCatalog) GetByID(_ context.Context, id string) (*models.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.services {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *stubCatalog) ListByCategory(_ context.Context, categoryID string) ([]*models.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*models.Service
	for _, s := range c.services {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *stubCatalog) Create(_ context.Context, s *models.Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = append(c.services, s)
	c.created = append(c.created, s)
	return nil
}

func (c *stubCatalog) Update(_ context.Context, s *models.Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.services {
		if existing.ID == s.ID {
			c.services[i] = s
			c.updated = append(c.updated, s)
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubCategories struct {
	categories []*models.Category
}

func (c *stubCategories) List(context.Context) ([]*models.Category, error) {
	return c.categories, nil
}

func (c *stubCategories) GetByID(_ context.Context, id string) (*models.Category, error) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, nil
		}
	}
	return nil, repository.ErrNotFound
}

type stubBookings struct {
	bookings []*models.Booking
}

func (b *stubBookings) Create(_ context.Context, booking *models.Booking) error {
	b.bookings = append(b.bookings, booking)
	return nil
}

func (b *stubBookings) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	for _, booking := range b.bookings {
		if booking.ID == id {
			return booking, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (b *stubBookings) ListByUserID(_ context.Context, userID uuid.UUID, status *models.BookingStatus) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, booking := range b.bookings {
		if booking.UserID != userID {
			continue
		}
		if status != nil && booking.Status != *status {
			continue
		}
		out = append(out, booking)
	}
	return out, nil
}

func (b *stubBookings) ListUnseen(context.Context) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, booking := range b.bookings {
		if !booking.AdminSeen {
			out = append(out, booking)
		}
	}
	return out, nil
}

func (b *stubBookings) UpdateStatus(_ context.Context, id uuid.UUID, status models.BookingStatus) error {
	for _, booking := range b.bookings {
		if booking.ID == id {
			booking.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (b *stubBookings) MarkSeen(_ context.Context, id uuid.UUID) error {
	for _, booking := range b.bookings {
		if booking.ID == id {
			booking.AdminSeen = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubUsers struct {
	users map[uuid.UUID]*models.User
}

func newStubUsers() *stubUsers {
	return &stubUsers{users: make(map[uuid.UUID]*models.User)}
}

func (u *stubUsers) Create(_ context.Context, user *models.User) error {
	u.users[user.ID] = user
	return nil
}

func (u *stubUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range u.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *stubUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := u.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (u *stubUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	user, ok := u.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Password = passwordHash
	return nil
}

type stubInitializer struct {
	result *InitResult
	calls  int
}

func (i *stubInitializer) EnsureInitialized(context.Context) *InitResult {
	i.calls++
	if i.result == nil {
		return &InitResult{Status: InitStatusReady}
	}
	return i.result
}

type stubReindexer struct {
	ids []string
	err error
}

func (r *stubReindexer) RebuildOne(_ context.Context, id string) error {
	r.ids = append(r.ids, id)
	return r.err
}

func price(p float64) *float64 {
	return &p
}
