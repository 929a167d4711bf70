package events

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	"github.com/arjunmehra/eventloft-backend/pkg/pagination"
)

// Repository defines persistence operations for the event catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*EventList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilters narrows catalog listings.
type ListFilters struct {
	Category *string
}

// EventList is a page of events plus the cursor for the next page.
type EventList struct {
	Events     []models.Event
	NextCursor string
}
