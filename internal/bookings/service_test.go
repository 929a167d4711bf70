package bookings

import (
	"context"
	"testing"
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

type fakeBookingRepo struct {
	byID    map[uuid.UUID]*models.Booking
	updates map[string]any
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: map[uuid.UUID]*models.Booking{}}
}

func (f *fakeBookingRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now().UTC()
	f.byID[booking.ID] = booking
	return booking, nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *booking
	return &clone, nil
}

func (f *fakeBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*BookingList, error) {
	list := &BookingList{}
	for _, booking := range f.byID {
		if booking.UserID == userID {
			list.Bookings = append(list.Bookings, *booking)
		}
	}
	return list, nil
}

func (f *fakeBookingRepo) ListAll(ctx context.Context, params pagination.Params, filters ListFilters) (*BookingList, error) {
	list := &BookingList{}
	for _, booking := range f.byID {
		if filters.PaymentSettled && booking.PaymentStatus == enums.PaymentStatusPending {
			continue
		}
		list.Bookings = append(list.Bookings, *booking)
	}
	return list, nil
}

func (f *fakeBookingRepo) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	f.updates = updates
	booking := f.byID[id]
	if v, ok := updates["event_date"].(time.Time); ok {
		booking.EventDate = v
	}
	if v, ok := updates["guest_count"].(int); ok {
		booking.GuestCount = v
	}
	if v, ok := updates["notes"].(string); ok {
		booking.Notes = &v
	}
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	f.byID[id].Status = status
	return nil
}

func (f *fakeBookingRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentID string, amount *decimal.Decimal) (int64, error) {
	booking, ok := f.byID[id]
	if !ok || booking.PaymentStatus == enums.PaymentStatusPaid {
		return 0, nil
	}
	booking.PaymentStatus = enums.PaymentStatusPaid
	booking.PaymentID = &paymentID
	if amount != nil {
		booking.AmountPaid = *amount
	}
	if booking.Status == enums.BookingStatusPending {
		booking.Status = enums.BookingStatusConfirmed
	}
	return 1, nil
}

func (f *fakeBookingRepo) MarkPaymentFailed(ctx context.Context, id uuid.UUID) (int64, error) {
	booking, ok := f.byID[id]
	if !ok || booking.PaymentStatus != enums.PaymentStatusPending {
		return 0, nil
	}
	booking.PaymentStatus = enums.PaymentStatusFailed
	return 1, nil
}

func (f *fakeBookingRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	for id, booking := range f.byID {
		if booking.UserID == userID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type fakeEventFinder struct {
	events map[uuid.UUID]*models.Event
}

func (f *fakeEventFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return event, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingNotifier struct {
	kinds []enums.NotificationKind
}

func (r *recordingNotifier) Notify(ctx context.Context, kind enums.NotificationKind, booking *models.Booking) {
	r.kinds = append(r.kinds, kind)
}

type fixture struct {
	svc      Service
	repo     *fakeBookingRepo
	notifier *recordingNotifier
	event    *models.Event
}

func newFixture(t *testing.T, cfg config.BookingConfig) *fixture {
	t.Helper()
	repo := newFakeBookingRepo()
	event := &models.Event{
		ID:    uuid.New(),
		Title: "Goa Beach Festival",
		Slug:  "goa-beach-festival",
		Date:  time.Date(2026, 12, 28, 18, 0, 0, 0, time.UTC),
		Price: decimal.NewFromInt(2000),
	}
	notifier := &recordingNotifier{}
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Events:   &fakeEventFinder{events: map[uuid.UUID]*models.Event{event.ID: event}},
		Tx:       fakeTxRunner{},
		Notifier: notifier,
		Config:   cfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, notifier: notifier, event: event}
}

func (f *fixture) createBooking(t *testing.T, actor Actor, req CreateBookingRequest) *BookingDTO {
	t.Helper()
	if req.EventID == uuid.Nil {
		req.EventID = f.event.ID
	}
	if req.ContactName == "" {
		req.ContactName = "Asha Rao"
	}
	if req.ContactEmail == "" {
		req.ContactEmail = "asha@example.com"
	}
	if req.ContactPhone == "" {
		req.ContactPhone = "+919812345678"
	}
	dto, err := f.svc.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return dto
}

func customer() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}
}

func admin() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func TestCreateBookingDefaultsAmountToEventPrice(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	dto := f.createBooking(t, customer(), CreateBookingRequest{})

	if !dto.AmountPaid.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("amount paid = %s, want 2000", dto.AmountPaid)
	}
	if dto.Status != enums.BookingStatusPending {
		t.Errorf("status = %s, want pending", dto.Status)
	}
	if dto.PaymentStatus != enums.PaymentStatusPending {
		t.Errorf("payment status = %s, want pending", dto.PaymentStatus)
	}
	if dto.GuestCount != 1 {
		t.Errorf("guest count = %d, want 1", dto.GuestCount)
	}
	if !dto.EventDate.Equal(f.event.Date) {
		t.Errorf("event date = %v, want %v", dto.EventDate, f.event.Date)
	}
	if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != enums.NotificationBookingReceived {
		t.Errorf("notifications = %v, want single booking_received", f.notifier.kinds)
	}
}

func TestCreateBookingRejectsUnknownEvent(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	_, err := f.svc.Create(context.Background(), customer(), CreateBookingRequest{
		EventID:      uuid.New(),
		ContactName:  "Asha",
		ContactEmail: "asha@example.com",
		ContactPhone: "+919812345678",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateBookingAmountSanityCap(t *testing.T) {
	f := newFixture(t, config.BookingConfig{AmountSanityMultiplier: 1})
	over := "2500"
	_, err := f.svc.Create(context.Background(), customer(), CreateBookingRequest{
		EventID:      f.event.ID,
		ContactName:  "Asha",
		ContactEmail: "asha@example.com",
		ContactPhone: "+919812345678",
		Amount:       &over,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	exact := "1500"
	dto := f.createBooking(t, customer(), CreateBookingRequest{Amount: &exact})
	if !dto.AmountPaid.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("amount paid = %s, want 1500", dto.AmountPaid)
	}
}

func TestOwnerCannotComplete(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	owner := customer()
	dto := f.createBooking(t, owner, CreateBookingRequest{})

	_, err := f.svc.UpdateStatus(context.Background(), owner, dto.ID, enums.BookingStatusCompleted)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for owner self-complete, got %v", err)
	}
}

func TestStrangerCannotTouchBooking(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	dto := f.createBooking(t, customer(), CreateBookingRequest{})

	stranger := customer()
	if _, err := f.svc.UpdateStatus(context.Background(), stranger, dto.ID, enums.BookingStatusCancelled); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Errorf("expected forbidden on status change, got %v", err)
	}
	guests := 4
	if _, err := f.svc.Patch(context.Background(), stranger, dto.ID, PatchBookingRequest{GuestCount: &guests}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Errorf("expected forbidden on patch, got %v", err)
	}
}

func TestAdminTransitionsAndTerminalGuard(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	adm := admin()
	dto := f.createBooking(t, customer(), CreateBookingRequest{})

	if _, err := f.svc.UpdateStatus(context.Background(), adm, dto.ID, enums.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), adm, dto.ID, enums.BookingStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err := f.svc.UpdateStatus(context.Background(), adm, dto.ID, enums.BookingStatusConfirmed)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict leaving completed, got %v", err)
	}

	// Repeating the terminal status is still a rejected transition, not a no-op.
	_, err = f.svc.UpdateStatus(context.Background(), adm, dto.ID, enums.BookingStatusCompleted)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict repeating completed, got %v", err)
	}

	wantKinds := []enums.NotificationKind{
		enums.NotificationBookingReceived,
		enums.NotificationBookingConfirmed,
		enums.NotificationBookingCompleted,
	}
	if len(f.notifier.kinds) != len(wantKinds) {
		t.Fatalf("notifications = %v, want %v", f.notifier.kinds, wantKinds)
	}
	for i, kind := range wantKinds {
		if f.notifier.kinds[i] != kind {
			t.Errorf("notification[%d] = %s, want %s", i, f.notifier.kinds[i], kind)
		}
	}
}

func TestCompleteFromPendingRequiresFlag(t *testing.T) {
	strict := newFixture(t, config.BookingConfig{})
	adm := admin()
	dto := strict.createBooking(t, customer(), CreateBookingRequest{})

	_, err := strict.svc.UpdateStatus(context.Background(), adm, dto.ID, enums.BookingStatusCompleted)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict without flag, got %v", err)
	}

	relaxed := newFixture(t, config.BookingConfig{AllowCompleteFromPending: true})
	dto = relaxed.createBooking(t, customer(), CreateBookingRequest{})
	if _, err := relaxed.svc.UpdateStatus(context.Background(), adm, dto.ID, enums.BookingStatusCompleted); err != nil {
		t.Fatalf("complete from pending with flag: %v", err)
	}
}

func TestOwnerCancelNonTerminal(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	owner := customer()
	dto := f.createBooking(t, owner, CreateBookingRequest{})

	updated, err := f.svc.Cancel(context.Background(), owner, dto.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Status != enums.BookingStatusCancelled {
		t.Errorf("status = %s, want cancelled", updated.Status)
	}

	_, err = f.svc.Cancel(context.Background(), owner, dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict cancelling a cancelled booking, got %v", err)
	}
	_, err = f.svc.UpdateStatus(context.Background(), admin(), dto.ID, enums.BookingStatusConfirmed)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict out of cancelled, got %v", err)
	}
}

func TestSameStatusNoOpForLiveBooking(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	adm := admin()
	dto := f.createBooking(t, customer(), CreateBookingRequest{})

	updated, err := f.svc.UpdateStatus(context.Background(), adm, dto.ID, enums.BookingStatusPending)
	if err != nil {
		t.Fatalf("same-status update: %v", err)
	}
	if updated.Status != enums.BookingStatusPending {
		t.Errorf("status = %s, want pending", updated.Status)
	}
	if len(f.notifier.kinds) != 1 {
		t.Errorf("notifications = %v, want only the creation email", f.notifier.kinds)
	}
}

func TestPatchPreservesUnspecifiedFields(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	owner := customer()
	notes := "vegan"
	dto := f.createBooking(t, owner, CreateBookingRequest{GuestCount: 3, Notes: &notes})

	guests := 5
	updated, err := f.svc.Patch(context.Background(), owner, dto.ID, PatchBookingRequest{GuestCount: &guests})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.GuestCount != 5 {
		t.Errorf("guest count = %d, want 5", updated.GuestCount)
	}
	if updated.Notes == nil || *updated.Notes != "vegan" {
		t.Errorf("notes = %v, want preserved %q", updated.Notes, "vegan")
	}
	if len(f.repo.updates) != 1 {
		t.Errorf("updates = %v, want only guest_count", f.repo.updates)
	}
}

func TestPatchRejectsTerminalBookingForOwner(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	owner := customer()
	dto := f.createBooking(t, owner, CreateBookingRequest{})
	if _, err := f.svc.Cancel(context.Background(), owner, dto.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	guests := 2
	_, err := f.svc.Patch(context.Background(), owner, dto.ID, PatchBookingRequest{GuestCount: &guests})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	f := newFixture(t, config.BookingConfig{})
	owner := customer()
	dto := f.createBooking(t, owner, CreateBookingRequest{})

	err := f.svc.Delete(context.Background(), owner, dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for owner delete, got %v", err)
	}

	if err := f.svc.Delete(context.Background(), admin(), dto.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), admin(), dto.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
