package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/eventloft-backend/pkg/db"
	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehra/eventloft-backend/pkg/errors"
	"github.com/arjunmehra/eventloft-backend/pkg/pagination"
)

// Service defines catalog operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateEventRequest) (*EventDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	GetBySlug(ctx context.Context, slug string) (*EventDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an event catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, req CreateEventRequest) (*EventDTO, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Slug:        normalizeSlug(req.Slug),
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Date:        date,
		Price:       price,
		ImageURL:    req.ImageURL,
	}
	if actorID != uuid.Nil {
		event.CreatedBy = &actorID
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_events_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "event slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(event), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*EventDTO, error) {
	event, err := s.repo.FindBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return FromModel(event), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResponse, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return &ListResponse{
		Events:     FromModels(list.Events),
		NextCursor: list.NextCursor,
	}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error) {
	if _, err := s.findByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		updates["date"] = date
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		updates["price"] = price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
		}
	}

	event, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(event), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	return nil
}

func (s *service) findByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func parseDate(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be RFC 3339 or YYYY-MM-DD")
}

func parsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	if price.Sign() < 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price, nil
}

func normalizeSlug(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
