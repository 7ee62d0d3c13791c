package service

import (
	"context"

	"enjez/internal/models"

	"github.com/google/uuid"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a natural-language completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// KnowledgeStore persists knowledge records. Implemented by the Postgres
// repository and the Qdrant store.
type KnowledgeStore interface {
	Upsert(ctx context.Context, rec *models.KnowledgeRecord) error
	Exists(ctx context.Context) (bool, error)
	ListAll(ctx context.Context) ([]*models.KnowledgeRecord, error)
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// CatalogSource is the read side of the services catalog.
type CatalogSource interface {
	ListServices(ctx context.Context) ([]*models.Service, error)
	GetByID(ctx context.Context, id string) (*models.Service, error)
}

type ServiceStore interface {
	CatalogSource
	ListByCategory(ctx context.Context, categoryID string) ([]*models.Service, error)
	Create(ctx context.Context, s *models.Service) error
	Update(ctx context.Context, s *models.Service) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, status *models.BookingStatus) ([]*models.Booking, error)
	ListUnseen(ctx context.Context) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error
	MarkSeen(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Initializer makes sure the knowledge base holds at least one record.
type Initializer interface {
	EnsureInitialized(ctx context.Context) *InitResult
}

// Reindexer refreshes the knowledge record of one catalog service.
type Reindexer interface {
	RebuildOne(ctx context.Context, serviceID string) error
}
