package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	"github.com/arjunmehra/eventloft-backend/pkg/enums"
	"github.com/arjunmehra/eventloft-backend/pkg/logger"
	"github.com/arjunmehra/eventloft-backend/pkg/mailer"
)

// Dispatcher turns booking lifecycle events into transactional email. Delivery
// runs off the request goroutine; failures are logged and never surfaced to
// the booking flow.
type Dispatcher struct {
	mailer mailer.Mailer
	logg   *logger.Logger
}

// NewDispatcher wires the email dispatcher.
func NewDispatcher(m mailer.Mailer, logg *logger.Logger) (*Dispatcher, error) {
	if m == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{mailer: m, logg: logg}, nil
}

// Notify builds and sends the email for the given lifecycle event.
func (d *Dispatcher) Notify(ctx context.Context, kind enums.NotificationKind, booking *models.Booking) {
	if booking == nil {
		return
	}
	msg, ok := buildMessage(kind, booking)
	if !ok {
		return
	}

	logCtx := d.logg.WithFields(context.WithoutCancel(ctx), map[string]any{
		"booking_id": booking.ID.String(),
		"kind":       kind.String(),
	})
	go d.deliver(logCtx, msg)
}

func (d *Dispatcher) deliver(ctx context.Context, msg mailer.Message) {
	if err := d.mailer.Send(msg); err != nil {
		d.logg.Error(ctx, "notification delivery failed", err)
		return
	}
	d.logg.Info(ctx, "notification sent")
}

func buildMessage(kind enums.NotificationKind, booking *models.Booking) (mailer.Message, bool) {
	to := strings.TrimSpace(booking.ContactEmail)
	if to == "" {
		return mailer.Message{}, false
	}

	eventTitle := "your event"
	if booking.Event != nil {
		eventTitle = booking.Event.Title
	}
	name := strings.TrimSpace(booking.ContactName)
	if name == "" {
		name = "there"
	}
	date := booking.EventDate.Format("Monday, 2 January 2006")
	ref := shortRef(booking)

	var subject, lead string
	switch kind {
	case enums.NotificationBookingReceived:
		subject = fmt.Sprintf("Booking received for %s", eventTitle)
		lead = fmt.Sprintf("We have received your booking for %s on %s. You will hear from us once it is confirmed.", eventTitle, date)
	case enums.NotificationBookingConfirmed:
		subject = fmt.Sprintf("Booking confirmed for %s", eventTitle)
		lead = fmt.Sprintf("Your booking for %s on %s is confirmed. We look forward to hosting you.", eventTitle, date)
	case enums.NotificationBookingCompleted:
		subject = fmt.Sprintf("Thank you for attending %s", eventTitle)
		lead = fmt.Sprintf("Your booking for %s is now complete. Thank you for celebrating with us.", eventTitle)
	case enums.NotificationBookingRejected:
		subject = fmt.Sprintf("Booking update for %s", eventTitle)
		lead = fmt.Sprintf("Unfortunately we could not accommodate your booking for %s on %s. Any payment made will be refunded.", eventTitle, date)
	case enums.NotificationBookingUpdated:
		subject = fmt.Sprintf("Booking updated for %s", eventTitle)
		lead = fmt.Sprintf("Your booking for %s has been updated. The event date on record is %s.", eventTitle, date)
	default:
		return mailer.Message{}, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	b.WriteString(lead)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Booking reference: %s\n", ref)
	fmt.Fprintf(&b, "Guests: %d\n", booking.GuestCount)
	b.WriteString("\nWarm regards,\nThe EventLoft team\n")

	return mailer.Message{To: to, Subject: subject, Body: b.String()}, true
}

// shortRef is the first uuid block, enough for support lookups.
func shortRef(booking *models.Booking) string {
	id := booking.ID.String()
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return strings.ToUpper(id)
}
