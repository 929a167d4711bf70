package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/eventloft-backend/pkg/config"
	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	"github.com/arjunmehra/eventloft-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/eventloft-backend/pkg/errors"
	"github.com/arjunmehra/eventloft-backend/pkg/pagination"
)

// Actor identifies the authenticated principal acting on a booking.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// Notifier dispatches booking lifecycle email. Implementations must not block
// and must never propagate delivery failures back to the caller.
type Notifier interface {
	Notify(ctx context.Context, kind enums.NotificationKind, booking *models.Booking)
}

// Service defines booking operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDTO, error)
	ListMine(ctx context.Context, actor Actor, params pagination.Params) (*ListResponse, error)
	ListAll(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResponse, error)
	Patch(ctx context.Context, actor Actor, id uuid.UUID, req PatchBookingRequest) (*BookingDTO, error)
	UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, newStatus enums.BookingStatus) (*BookingDTO, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type service struct {
	repo     Repository
	events   eventFinder
	tx       txRunner
	notifier Notifier
	cfg      config.BookingConfig
}

// ServiceParams bundles the dependencies required to build a booking service.
type ServiceParams struct {
	Repo     Repository
	Events   eventFinder
	Tx       txRunner
	Notifier Notifier
	Config   config.BookingConfig
}

// NewService builds a booking service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event finder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:     params.Repo,
		events:   params.Events,
		tx:       params.Tx,
		notifier: params.Notifier,
		cfg:      params.Config,
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.EventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}

	event, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}

	eventDate := event.Date
	if req.EventDate != nil {
		parsed, err := parseEventDate(*req.EventDate)
		if err != nil {
			return nil, err
		}
		eventDate = parsed
	}

	guests := req.GuestCount
	if guests == 0 {
		guests = 1
	}
	if guests < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest count must be positive")
	}

	amount, err := s.resolveAmount(req.Amount, event.Price)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:        actor.UserID,
		EventID:       event.ID,
		ContactName:   strings.TrimSpace(req.ContactName),
		ContactEmail:  strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		EventDate:     eventDate,
		GuestCount:    guests,
		Notes:         req.Notes,
		Status:        enums.BookingStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		AmountPaid:    amount,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}
	created.Event = event

	s.notifier.Notify(ctx, enums.NotificationBookingReceived, created)

	return FromModel(created, false), nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && booking.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking does not belong to user")
	}
	return FromModel(booking, actor.IsAdmin()), nil
}

func (s *service) ListMine(ctx context.Context, actor Actor, params pagination.Params) (*ListResponse, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, actor.UserID, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return &ListResponse{
		Bookings:   FromModels(list.Bookings, false),
		NextCursor: list.NextCursor,
	}, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResponse, error) {
	list, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return &ListResponse{
		Bookings:   FromModels(list.Bookings, true),
		NextCursor: list.NextCursor,
	}, nil
}

func (s *service) Patch(ctx context.Context, actor Actor, id uuid.UUID, req PatchBookingRequest) (*BookingDTO, error) {
	updates := map[string]any{}
	if req.EventDate != nil {
		parsed, err := parseEventDate(*req.EventDate)
		if err != nil {
			return nil, err
		}
		updates["event_date"] = parsed
	}
	if req.GuestCount != nil {
		if *req.GuestCount < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest count must be positive")
		}
		updates["guest_count"] = *req.GuestCount
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := authorizeEdit(actor, booking); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := repo.UpdateFields(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "patch booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(booking, actor.IsAdmin()), nil
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, newStatus enums.BookingStatus) (*BookingDTO, error) {
	if !newStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status")
	}

	var changed bool
	var updated *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() {
			if booking.UserID != actor.UserID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "booking does not belong to user")
			}
			if newStatus != enums.BookingStatusCancelled {
				return pkgerrors.New(pkgerrors.CodeForbidden, "only cancellation is permitted")
			}
		}

		// Terminal bookings reject every request, including a repeat of their
		// own status. The same-status no-op applies to live bookings only.
		if booking.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move booking from %s to %s", booking.Status, newStatus))
		}
		if booking.Status == newStatus {
			updated = booking
			return nil
		}
		if !s.canTransition(booking.Status, newStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move booking from %s to %s", booking.Status, newStatus))
		}

		if err := repo.UpdateStatus(ctx, booking.ID, newStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		booking.Status = newStatus
		updated = booking
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifier.Notify(ctx, notificationKindFor(newStatus), updated)
	}
	return FromModel(updated, actor.IsAdmin()), nil
}

func (s *service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*BookingDTO, error) {
	return s.UpdateStatus(ctx, actor, id, enums.BookingStatusCancelled)
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if _, err := s.load(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete booking")
	}
	return nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

func (s *service) canTransition(from, to enums.BookingStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch from {
	case enums.BookingStatusPending:
		switch to {
		case enums.BookingStatusConfirmed, enums.BookingStatusRejected, enums.BookingStatusCancelled:
			return true
		case enums.BookingStatusCompleted:
			return s.cfg.AllowCompleteFromPending
		}
	case enums.BookingStatusConfirmed:
		switch to {
		case enums.BookingStatusCompleted, enums.BookingStatusRejected, enums.BookingStatusCancelled:
			return true
		}
	}
	return false
}

func (s *service) resolveAmount(raw *string, price decimal.Decimal) (decimal.Decimal, error) {
	if raw == nil {
		return price, nil
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal number")
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	multiplier := s.cfg.AmountSanityMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	ceiling := price.Mul(decimal.NewFromInt(int64(multiplier)))
	if ceiling.Sign() > 0 && amount.GreaterThan(ceiling) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount exceeds event price")
	}
	return amount, nil
}

func authorizeEdit(actor Actor, booking *models.Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	if booking.UserID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "booking does not belong to user")
	}
	if booking.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "booking can no longer be edited")
	}
	return nil
}

func notificationKindFor(status enums.BookingStatus) enums.NotificationKind {
	switch status {
	case enums.BookingStatusConfirmed:
		return enums.NotificationBookingConfirmed
	case enums.BookingStatusCompleted:
		return enums.NotificationBookingCompleted
	case enums.BookingStatusRejected:
		return enums.NotificationBookingRejected
	default:
		return enums.NotificationBookingUpdated
	}
}

func parseEventDate(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "event date must be RFC 3339 or YYYY-MM-DD")
}
