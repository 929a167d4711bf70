package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
)

// CreateEventRequest captures the fields admins supply for a catalog entry.
type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Slug        string  `json:"slug" validate:"required,min=1,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=300"`
	Date        string  `json:"date" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateEventRequest carries optional field updates. Nil means leave unchanged.
type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=300"`
	Date        *string `json:"date,omitempty"`
	Price       *string `json:"price,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// EventDTO is the public representation of a catalog entry.
type EventDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Category    *string         `json:"category,omitempty"`
	Description *string         `json:"description,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Date        time.Time       `json:"date"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListResponse is a page of events.
type ListResponse struct {
	Events     []EventDTO `json:"events"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps an event model to its DTO.
func FromModel(event *models.Event) *EventDTO {
	if event == nil {
		return nil
	}
	return &EventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Slug:        event.Slug,
		Category:    event.Category,
		Description: event.Description,
		Location:    event.Location,
		Date:        event.Date,
		Price:       event.Price,
		ImageURL:    event.ImageURL,
		CreatedAt:   event.CreatedAt,
	}
}

// FromModels maps a slice of event models to DTOs.
func FromModels(events []models.Event) []EventDTO {
	out := make([]EventDTO, 0, len(events))
	for i := range events {
		out = append(out, *FromModel(&events[i]))
	}
	return out
}
