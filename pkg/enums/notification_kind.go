package enums

import "fmt"

// NotificationKind selects the email template sent on a booking event.
type NotificationKind string

const (
	NotificationBookingReceived  NotificationKind = "booking_received"
	NotificationBookingConfirmed NotificationKind = "booking_confirmed"
	NotificationBookingCompleted NotificationKind = "booking_completed"
	NotificationBookingRejected  NotificationKind = "booking_rejected"
	NotificationBookingUpdated   NotificationKind = "booking_updated"
)

var validNotificationKinds = []NotificationKind{
	NotificationBookingReceived,
	NotificationBookingConfirmed,
	NotificationBookingCompleted,
	NotificationBookingRejected,
	NotificationBookingUpdated,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
