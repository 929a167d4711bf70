package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehra/eventloft-backend/pkg/db/models"
	"github.com/arjunmehra/eventloft-backend/pkg/enums"
	pkgerrors "github.com/arjunmehra/eventloft-backend/pkg/errors"
)

// Overview is the admin dashboard snapshot.
type Overview struct {
	Bookings BookingStats `json:"bookings"`
	Events   EventStats   `json:"events"`
	Revenue  RevenueStats `json:"revenue"`
}

// BookingStats breaks bookings down by lifecycle state.
type BookingStats struct {
	Total           int64 `json:"total"`
	Pending         int64 `json:"pending"`
	Confirmed       int64 `json:"confirmed"`
	Completed       int64 `json:"completed"`
	Rejected        int64 `json:"rejected"`
	Cancelled       int64 `json:"cancelled"`
	AwaitingPayment int64 `json:"awaiting_payment"`
}

// EventStats splits the catalog around now.
type EventStats struct {
	Total    int64 `json:"total"`
	Upcoming int64 `json:"upcoming"`
	Past     int64 `json:"past"`
}

// RevenueStats totals settled payments.
type RevenueStats struct {
	PaidBookings int64           `json:"paid_bookings"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
}

// OverviewService assembles the dashboard snapshot.
type OverviewService interface {
	Overview(ctx context.Context) (*Overview, error)
}

type overviewService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOverviewService builds the dashboard service on the shared DB handle.
func NewOverviewService(db *gorm.DB) (OverviewService, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &overviewService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

type statusCountRow struct {
	Status string
	Count  int64
}

func (s *overviewService) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{}

	var rows []statusCountRow
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count bookings")
	}
	for _, row := range rows {
		out.Bookings.Total += row.Count
		switch enums.BookingStatus(row.Status) {
		case enums.BookingStatusPending:
			out.Bookings.Pending = row.Count
		case enums.BookingStatusConfirmed:
			out.Bookings.Confirmed = row.Count
		case enums.BookingStatusCompleted:
			out.Bookings.Completed = row.Count
		case enums.BookingStatusRejected:
			out.Bookings.Rejected = row.Count
		case enums.BookingStatusCancelled:
			out.Bookings.Cancelled = row.Count
		}
	}

	err = s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("payment_status = ?", enums.PaymentStatusPending).
		Where("status NOT IN ?", []enums.BookingStatus{
			enums.BookingStatusRejected,
			enums.BookingStatusCancelled,
		}).
		Count(&out.Bookings.AwaitingPayment).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unpaid bookings")
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Count(&out.Events.Total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count events")
	}
	err = s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("date >= ?", now).
		Count(&out.Events.Upcoming).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count upcoming events")
	}
	out.Events.Past = out.Events.Total - out.Events.Upcoming

	var revenue struct {
		Count int64
		Total decimal.Decimal
	}
	err = s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("count(*) as count, coalesce(sum(amount_paid), 0) as total").
		Where("payment_status = ?", enums.PaymentStatusPaid).
		Scan(&revenue).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	out.Revenue.PaidBookings = revenue.Count
	out.Revenue.TotalPaid = revenue.Total

	return out, nil
}
