package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/arjunmehra/eventloft-backend/pkg/errors"
	"github.com/arjunmehra/eventloft-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// bookingDeleter removes a user's bookings when the account goes away.
type bookingDeleter interface {
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// Service defines the admin account operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// ListResponse is a page of user accounts.
type ListResponse struct {
	Users      []UserDTO `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type service struct {
	repo     Repository
	bookings bookingDeleter
	tx       txRunner
}

// NewService wires the account service.
func NewService(repo Repository, bookings bookingDeleter, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("booking deleter required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, bookings: bookings, tx: tx}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return &ListResponse{
		Users:      FromModels(list.Users),
		NextCursor: list.NextCursor,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// Delete removes the account and its bookings in one transaction. Admins
// cannot delete themselves; that would orphan the session mid-request.
func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete own account")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if err := s.bookings.DeleteByUser(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user bookings")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}
		return nil
	})
}
