package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arjunmehra/eventloft-backend/internal/bookings"
	"github.com/arjunmehra/eventloft-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/eventloft-backend/pkg/errors"
	"github.com/arjunmehra/eventloft-backend/pkg/pagination"
)

type stubBookingsService struct {
	dto       *bookings.BookingDTO
	err       error
	lastActor bookings.Actor
}

func (s *stubBookingsService) Create(ctx context.Context, actor bookings.Actor, req bookings.CreateBookingRequest) (*bookings.BookingDTO, error) {
	s.lastActor = actor
	return s.dto, s.err
}

func (s *stubBookingsService) Get(ctx context.Context, actor bookings.Actor, id uuid.UUID) (*bookings.BookingDTO, error) {
	s.lastActor = actor
	return s.dto, s.err
}

func (s *stubBookingsService) ListMine(ctx context.Context, actor bookings.Actor, params pagination.Params) (*bookings.ListResponse, error) {
	s.lastActor = actor
	return &bookings.ListResponse{}, s.err
}

func (s *stubBookingsService) ListAll(ctx context.Context, params pagination.Params, filters bookings.ListFilters) (*bookings.ListResponse, error) {
	return &bookings.ListResponse{}, s.err
}

func (s *stubBookingsService) Patch(ctx context.Context, actor bookings.Actor, id uuid.UUID, req bookings.PatchBookingRequest) (*bookings.BookingDTO, error) {
	s.lastActor = actor
	return s.dto, s.err
}

func (s *stubBookingsService) UpdateStatus(ctx context.Context, actor bookings.Actor, id uuid.UUID, status enums.BookingStatus) (*bookings.BookingDTO, error) {
	s.lastActor = actor
	return s.dto, s.err
}

func (s *stubBookingsService) Cancel(ctx context.Context, actor bookings.Actor, id uuid.UUID) (*bookings.BookingDTO, error) {
	s.lastActor = actor
	return s.dto, s.err
}

func (s *stubBookingsService) Delete(ctx context.Context, actor bookings.Actor, id uuid.UUID) error {
	s.lastActor = actor
	return s.err
}

func TestCancelBookingRoutesActor(t *testing.T) {
	svc := &stubBookingsService{dto: &bookings.BookingDTO{
		ID:     uuid.New(),
		Status: enums.BookingStatusCancelled,
	}}
	router := chi.NewRouter()
	router.Post("/api/v1/bookings/{bookingId}/cancel", CancelBooking(svc, testLogger()))

	req := authedRequest(http.MethodPost, "/api/v1/bookings/"+uuid.NewString()+"/cancel", `{}`)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d, body %s", resp.Code, resp.Body.String())
	}
	if svc.lastActor.UserID == uuid.Nil {
		t.Fatal("expected actor to reach the service")
	}
	if svc.lastActor.Role != enums.UserRoleCustomer {
		t.Fatalf("actor role = %s", svc.lastActor.Role)
	}
}

func TestCancelBookingInvalidID(t *testing.T) {
	svc := &stubBookingsService{}
	router := chi.NewRouter()
	router.Post("/api/v1/bookings/{bookingId}/cancel", CancelBooking(svc, testLogger()))

	req := authedRequest(http.MethodPost, "/api/v1/bookings/not-a-uuid/cancel", `{}`)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetBookingForbiddenPassthrough(t *testing.T) {
	svc := &stubBookingsService{err: pkgerrors.New(pkgerrors.CodeForbidden, "booking does not belong to user")}
	router := chi.NewRouter()
	router.Get("/api/v1/bookings/{bookingId}", GetBooking(svc, testLogger()))

	req := authedRequest(http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), "")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminListBookingsRejectsBadStatus(t *testing.T) {
	svc := &stubBookingsService{}
	handler := AdminListBookings(svc, testLogger())

	req := authedRequest(http.MethodGet, "/api/admin/v1/bookings?status=bogus", "")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
