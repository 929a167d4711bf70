package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/eventloft-backend/pkg/enums"
)

// Booking represents one reservation of one event by one user. Contact fields
// are a snapshot taken at booking time and may differ from the account profile.
type Booking struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	EventID       uuid.UUID           `gorm:"column:event_id;type:uuid;not null;index" json:"event_id"`
	ContactName   string              `gorm:"column:contact_name;not null" json:"contact_name"`
	ContactEmail  string              `gorm:"column:contact_email;not null" json:"contact_email"`
	ContactPhone  string              `gorm:"column:contact_phone;not null" json:"contact_phone"`
	EventDate     time.Time           `gorm:"column:event_date;not null" json:"event_date"`
	GuestCount    int                 `gorm:"column:guest_count;not null;default:1" json:"guest_count"`
	Notes         *string             `gorm:"column:notes" json:"notes,omitempty"`
	Status        enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'" json:"payment_status"`
	PaymentID     *string             `gorm:"column:payment_id;type:text;uniqueIndex" json:"payment_id,omitempty"`
	AmountPaid    decimal.Decimal     `gorm:"column:amount_paid;type:numeric(12,2);not null;default:0" json:"amount_paid"`
	User          *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event         *Event              `gorm:"foreignKey:EventID" json:"event,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
