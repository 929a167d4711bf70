package bookings

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	"github.com/arjunmehra/eventloft-backend/pkg/enums"
	"github.com/arjunmehra/eventloft-backend/pkg/pagination"
)

// Repository defines persistence operations for bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*BookingList, error)
	ListAll(ctx context.Context, params pagination.Params, filters ListFilters) (*BookingList, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID string, amount *decimal.Decimal) (int64, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilters narrows admin booking listings.
type ListFilters struct {
	Status        *enums.BookingStatus
	PaymentStatus *enums.PaymentStatus
	// PaymentSettled selects rows whose payment left the pending state.
	PaymentSettled bool
}

// BookingList is a page of bookings plus the cursor for the next page.
type BookingList struct {
	Bookings   []models.Booking
	NextCursor string
}
