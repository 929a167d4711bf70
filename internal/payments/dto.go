package payments

import (
	"github.com/google/uuid"

	"github.com/arjunmehra/eventloft-backend/internal/bookings"
)

// CreateOrderRequest asks the gateway for a new order. Either a booking id or
// an explicit amount must be supplied; a booking id wins and pins the order to
// the booking's recorded amount.
type CreateOrderRequest struct {
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Amount    *string    `json:"amount,omitempty"`
	Currency  string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	Receipt   string     `json:"receipt,omitempty" validate:"omitempty,max=40"`
}

// OrderResponse mirrors the gateway order so the frontend can open checkout.
type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status"`
	KeyID    string `json:"key_id"`
}

// VerifyRequest carries the checkout callback fields plus the booking to
// finalize. Field names follow the gateway's callback payload.
type VerifyRequest struct {
	OrderID   string     `json:"razorpay_order_id" validate:"required"`
	PaymentID string     `json:"razorpay_payment_id" validate:"required"`
	Signature string     `json:"razorpay_signature" validate:"required"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Amount    *string    `json:"amount,omitempty"`
}

// VerifyResponse reports the signature outcome and the finalized booking.
type VerifyResponse struct {
	Verified bool                 `json:"verified"`
	Booking  *bookings.BookingDTO `json:"booking,omitempty"`
}
