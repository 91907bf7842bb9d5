package mission

import (
	"context"

	"github.com/foresy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines query parameters for listing missions
type Filter struct {
	shared.Filter
	Status      *Status
	PricingMode *PricingMode
}

// Repository defines the persistence interface for missions
type Repository interface {
	Save(ctx context.Context, m *Mission) error
	FindByID(ctx context.Context, id uuid.UUID) (*Mission, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter Filter) (*shared.Paginated[*Mission], error)
	Update(ctx context.Context, m *Mission) error
	Delete(ctx context.Context, id uuid.UUID) error
}
