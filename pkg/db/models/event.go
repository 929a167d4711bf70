package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a bookable catalog entry. Price is rupees with paise precision.
type Event struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string          `gorm:"type:text;not null" json:"title"`
	Slug        string          `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Category    *string         `gorm:"type:text" json:"category,omitempty"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Location    *string         `gorm:"type:text" json:"location,omitempty"`
	Date        time.Time       `gorm:"column:date;not null" json:"date"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	ImageURL    *string         `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	CreatedBy   *uuid.UUID      `gorm:"column:created_by;type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
