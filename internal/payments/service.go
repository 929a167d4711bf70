package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/eventloft-backend/internal/bookings"
	"github.com/arjunmehra/eventloft-backend/pkg/config"
	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	"github.com/arjunmehra/eventloft-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/eventloft-backend/pkg/errors"
	"github.com/arjunmehra/eventloft-backend/pkg/logger"
	"github.com/arjunmehra/eventloft-backend/pkg/metrics"
	"github.com/arjunmehra/eventloft-backend/pkg/razorpay"
)

const (
	outcomeVerified         = "verified"
	outcomeDuplicate        = "duplicate"
	outcomeConflict         = "conflict"
	outcomeInvalidSignature = "invalid_signature"
	outcomeNotFound         = "not_found"
)

type gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*razorpay.Order, error)
	SigningSecret() string
}

type bookingStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID string, amount *decimal.Decimal) (int64, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) (int64, error)
}

// verifyGuard dedupes post-verification side effects across retries.
type verifyGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	VerificationKey(paymentID string) string
}

// Service defines gateway order creation and payment finalization.
type Service interface {
	CreateOrder(ctx context.Context, actor bookings.Actor, req CreateOrderRequest) (*OrderResponse, error)
	VerifyAndFinalize(ctx context.Context, actor bookings.Actor, req VerifyRequest) (*VerifyResponse, error)
}

type service struct {
	gateway  gateway
	bookings bookingStore
	guard    verifyGuard
	notifier bookings.Notifier
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger
	keyID    string
	cfg      config.BookingConfig
}

// ServiceParams bundles payment service dependencies.
type ServiceParams struct {
	Gateway  gateway
	Bookings bookingStore
	Guard    verifyGuard
	Notifier bookings.Notifier
	Metrics  *metrics.PaymentMetrics
	Logger   *logger.Logger
	KeyID    string
	Config   config.BookingConfig
}

// NewService wires the payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("booking store required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("verification guard required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		gateway:  params.Gateway,
		bookings: params.Bookings,
		guard:    params.Guard,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     params.Logger,
		keyID:    params.KeyID,
		cfg:      params.Config,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, actor bookings.Actor, req CreateOrderRequest) (*OrderResponse, error) {
	amount := decimal.Zero
	receipt := strings.TrimSpace(req.Receipt)

	switch {
	case req.BookingID != nil:
		booking, err := s.loadBooking(ctx, *req.BookingID)
		if err != nil {
			return nil, err
		}
		if !actor.IsAdmin() && booking.UserID != actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking does not belong to user")
		}
		if booking.PaymentStatus != enums.PaymentStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking payment is already settled")
		}
		amount = booking.AmountPaid
		if receipt == "" {
			receipt = "booking_" + booking.ID.String()[:8]
		}
	case req.Amount != nil:
		parsed, err := decimal.NewFromString(strings.TrimSpace(*req.Amount))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal number")
		}
		amount = parsed
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id or amount required")
	}
	if amount.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}

	start := time.Now()
	order, err := s.gateway.CreateOrder(ctx, amount, req.Currency, receipt)
	s.metrics.ObserveGatewayDuration(time.Since(start))
	if err != nil {
		return nil, err
	}
	s.metrics.IncOrderCreated()

	return &OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
		KeyID:    s.keyID,
	}, nil
}

// VerifyAndFinalize checks the callback signature and, when a booking is
// referenced, applies the paid transition exactly once. A replay of an already
// finalized payment is answered as verified without touching state.
func (s *service) VerifyAndFinalize(ctx context.Context, actor bookings.Actor, req VerifyRequest) (*VerifyResponse, error) {
	if !razorpay.VerifySignature(s.gateway.SigningSecret(), req.OrderID, req.PaymentID, req.Signature) {
		s.metrics.IncVerification(outcomeInvalidSignature)
		s.logg.Warn(s.logg.WithField(ctx, "order_id", req.OrderID), "payment signature mismatch")
		s.recordFailure(ctx, actor, req)
		return &VerifyResponse{Verified: false}, nil
	}

	if req.BookingID == nil {
		s.metrics.IncVerification(outcomeVerified)
		return &VerifyResponse{Verified: true}, nil
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*req.Amount))
		if err != nil || parsed.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive decimal number")
		}
		booking, err := s.loadBooking(ctx, *req.BookingID)
		if err != nil {
			s.metrics.IncVerification(outcomeNotFound)
			return nil, err
		}
		if parsed.GreaterThan(s.amountCeiling(booking)) {
			s.logg.Warn(s.logg.WithBookingID(ctx, booking.ID.String()), "callback amount above sanity cap, keeping booked amount")
		} else {
			amount = &parsed
		}
	}

	rows, err := s.bookings.MarkPaid(ctx, *req.BookingID, req.PaymentID, amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize payment")
	}
	if rows == 0 {
		return s.resolveNoRows(ctx, actor, req)
	}

	booking, err := s.loadBooking(ctx, *req.BookingID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncVerification(outcomeVerified)
	s.notifyOnce(ctx, req.PaymentID, booking)

	return &VerifyResponse{
		Verified: true,
		Booking:  bookings.FromModel(booking, actor.IsAdmin()),
	}, nil
}

// resolveNoRows distinguishes a missing booking, a replayed callback for the
// same payment, and a second payment racing an already settled booking.
func (s *service) resolveNoRows(ctx context.Context, actor bookings.Actor, req VerifyRequest) (*VerifyResponse, error) {
	booking, err := s.loadBooking(ctx, *req.BookingID)
	if err != nil {
		s.metrics.IncVerification(outcomeNotFound)
		return nil, err
	}

	if booking.PaymentStatus == enums.PaymentStatusPaid &&
		booking.PaymentID != nil && *booking.PaymentID == req.PaymentID {
		s.metrics.IncVerification(outcomeDuplicate)
		return &VerifyResponse{
			Verified: true,
			Booking:  bookings.FromModel(booking, actor.IsAdmin()),
		}, nil
	}

	s.metrics.IncVerification(outcomeConflict)
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "booking was already settled by another payment")
}

// amountCeiling is the highest callback amount written to a booking. The
// event's canonical price is the reference; the amount fixed at booking time
// stands in when the event row is gone. Anything above it keeps the stored
// amount instead.
func (s *service) amountCeiling(booking *models.Booking) decimal.Decimal {
	price := booking.AmountPaid
	if booking.Event != nil && booking.Event.Price.Sign() > 0 {
		price = booking.Event.Price
	}
	multiplier := s.cfg.AmountSanityMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	return price.Mul(decimal.NewFromInt(int64(multiplier)))
}

// recordFailure flips a referenced booking's payment to failed so staff can
// spot broken checkouts. Only the booking owner or an admin can trigger it,
// and a later valid callback may still settle the booking.
func (s *service) recordFailure(ctx context.Context, actor bookings.Actor, req VerifyRequest) {
	if req.BookingID == nil {
		return
	}
	booking, err := s.bookings.FindByID(ctx, *req.BookingID)
	if err != nil {
		return
	}
	if !actor.IsAdmin() && booking.UserID != actor.UserID {
		return
	}
	if _, err := s.bookings.MarkPaymentFailed(ctx, booking.ID); err != nil {
		s.logg.Error(s.logg.WithBookingID(ctx, booking.ID.String()), "record failed payment", err)
	}
}

// notifyOnce sends the confirmation email at most once per payment id. A guard
// failure is logged and the email sent anyway; a duplicate email beats a
// silently dropped one.
func (s *service) notifyOnce(ctx context.Context, paymentID string, booking *models.Booking) {
	key := s.guard.VerificationKey(paymentID)
	set, err := s.guard.SetNX(ctx, key, "1", s.cfg.VerifyGuardTTL)
	if err != nil {
		s.logg.Error(s.logg.WithBookingID(ctx, booking.ID.String()), "verification guard unavailable", err)
		set = true
	}
	if !set {
		return
	}
	s.notifier.Notify(ctx, enums.NotificationBookingConfirmed, booking)
}

func (s *service) loadBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}
