package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	"github.com/arjunmehra/eventloft-backend/pkg/enums"
)

// CreateBookingRequest captures the data a customer submits for a reservation.
type CreateBookingRequest struct {
	EventID      uuid.UUID `json:"event_id" validate:"required"`
	ContactName  string    `json:"contact_name" validate:"required,min=1,max=120"`
	ContactEmail string    `json:"contact_email" validate:"required,email"`
	ContactPhone string    `json:"contact_phone" validate:"required,min=7,max=20"`
	EventDate    *string   `json:"event_date,omitempty"`
	GuestCount   int       `json:"guest_count" validate:"omitempty,gt=0"`
	Notes        *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	// Amount overrides the event price when supplied, bounded by the sanity cap.
	Amount *string `json:"amount,omitempty"`
}

// PatchBookingRequest carries the owner-editable fields. Nil means unchanged.
type PatchBookingRequest struct {
	EventDate  *string `json:"event_date,omitempty"`
	GuestCount *int    `json:"guest_count,omitempty" validate:"omitempty,gt=0"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// AdminUpdateRequest lets admins patch fields and/or request a transition.
type AdminUpdateRequest struct {
	PatchBookingRequest
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed completed rejected cancelled"`
}

// EventSummary is the denormalized event slice shown on bookings.
type EventSummary struct {
	ID    uuid.UUID       `json:"id"`
	Title string          `json:"title"`
	Slug  string          `json:"slug"`
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// UserSummary is the denormalized account slice shown on admin listings.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// BookingDTO is the public representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID           `json:"id"`
	EventID       uuid.UUID           `json:"event_id"`
	ContactName   string              `json:"contact_name"`
	ContactEmail  string              `json:"contact_email"`
	ContactPhone  string              `json:"contact_phone"`
	EventDate     time.Time           `json:"event_date"`
	GuestCount    int                 `json:"guest_count"`
	Notes         *string             `json:"notes,omitempty"`
	Status        enums.BookingStatus `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	PaymentID     *string             `json:"payment_id,omitempty"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	Event         *EventSummary       `json:"event,omitempty"`
	User          *UserSummary        `json:"user,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ListResponse is a page of bookings.
type ListResponse struct {
	Bookings   []BookingDTO `json:"bookings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a booking model to its DTO. includeUser controls whether the
// account summary is exposed (admin surfaces only).
func FromModel(booking *models.Booking, includeUser bool) *BookingDTO {
	if booking == nil {
		return nil
	}
	dto := &BookingDTO{
		ID:            booking.ID,
		EventID:       booking.EventID,
		ContactName:   booking.ContactName,
		ContactEmail:  booking.ContactEmail,
		ContactPhone:  booking.ContactPhone,
		EventDate:     booking.EventDate,
		GuestCount:    booking.GuestCount,
		Notes:         booking.Notes,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		PaymentID:     booking.PaymentID,
		AmountPaid:    booking.AmountPaid,
		CreatedAt:     booking.CreatedAt,
		UpdatedAt:     booking.UpdatedAt,
	}
	if booking.Event != nil {
		dto.Event = &EventSummary{
			ID:    booking.Event.ID,
			Title: booking.Event.Title,
			Slug:  booking.Event.Slug,
			Date:  booking.Event.Date,
			Price: booking.Event.Price,
		}
	}
	if includeUser && booking.User != nil {
		dto.User = &UserSummary{
			ID:    booking.User.ID,
			Name:  booking.User.Name,
			Email: booking.User.Email,
		}
	}
	return dto
}

// FromModels maps booking models to DTOs.
func FromModels(rows []models.Booking, includeUser bool) []BookingDTO {
	out := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], includeUser))
	}
	return out
}
