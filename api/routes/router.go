package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunmehra/eventloft-backend/api/controllers"
	"github.com/arjunmehra/eventloft-backend/api/middleware"
	"github.com/arjunmehra/eventloft-backend/internal/admin"
	"github.com/arjunmehra/eventloft-backend/internal/auth"
	"github.com/arjunmehra/eventloft-backend/internal/bookings"
	"github.com/arjunmehra/eventloft-backend/internal/events"
	"github.com/arjunmehra/eventloft-backend/internal/notifications"
	"github.com/arjunmehra/eventloft-backend/internal/payments"
	"github.com/arjunmehra/eventloft-backend/internal/users"
	"github.com/arjunmehra/eventloft-backend/pkg/config"
	"github.com/arjunmehra/eventloft-backend/pkg/db"
	"github.com/arjunmehra/eventloft-backend/pkg/logger"
	"github.com/arjunmehra/eventloft-backend/pkg/redis"
)

// Deps collects everything the HTTP layer needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *db.Client
	Redis           *redis.Client
	Registry        *prometheus.Registry
	AuthService     auth.Service
	EventsService   events.Service
	BookingsService bookings.Service
	PaymentsService payments.Service
	UsersService    users.Service
	OverviewService admin.OverviewService
	Notifications   *notifications.Dispatcher
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// Interface-typed nils would defeat the middlewares' own nil checks.
	var idemStore redis.IdempotencyStore
	var limiterStore interface {
		IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	}
	var cachePinger redis.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		limiterStore = deps.Redis
		cachePinger = deps.Redis
	}
	var dbPinger interface{ Ping(context.Context) error }
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	var contactSink controllers.ContactSink
	if deps.Notifications != nil {
		contactSink = deps.Notifications
	}
	contactRecipient := cfg.SMTP.ContactRecipient
	if contactRecipient == "" {
		contactRecipient = cfg.SMTP.DefaultFrom
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, cachePinger, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
	})
	r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
		Post("/api/admin/v1/auth/login", controllers.AdminAuthLogin(deps.AuthService, logg))

	r.Post("/api/v1/contact", controllers.SubmitContact(contactSink, contactRecipient, logg))

	r.Route("/api/v1/events", func(r chi.Router) {
		r.Get("/", controllers.ListEvents(deps.EventsService, logg))
		r.Get("/slug/{slug}", controllers.GetEventBySlug(deps.EventsService, logg))
		r.Get("/{eventId}", controllers.GetEvent(deps.EventsService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(deps.BookingsService, logg))
			r.Get("/mine", controllers.ListMyBookings(deps.BookingsService, logg))
			r.Get("/{bookingId}", controllers.GetBooking(deps.BookingsService, logg))
			r.Patch("/{bookingId}", controllers.PatchBooking(deps.BookingsService, logg))
			r.Post("/{bookingId}/cancel", controllers.CancelBooking(deps.BookingsService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/orders", controllers.CreatePaymentOrder(deps.PaymentsService, logg))
			r.Post("/verifications", controllers.VerifyPayment(deps.PaymentsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/overview", controllers.AdminOverview(deps.OverviewService, logg))
		r.Get("/payments", controllers.AdminListPayments(deps.BookingsService, logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.AdminListBookings(deps.BookingsService, logg))
			r.Get("/{bookingId}", controllers.GetBooking(deps.BookingsService, logg))
			r.Put("/{bookingId}", controllers.AdminUpdateBooking(deps.BookingsService, logg))
			r.Delete("/{bookingId}", controllers.AdminDeleteBooking(deps.BookingsService, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", controllers.CreateEvent(deps.EventsService, logg))
			r.Put("/{eventId}", controllers.UpdateEvent(deps.EventsService, logg))
			r.Delete("/{eventId}", controllers.DeleteEvent(deps.EventsService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.UsersService, logg))
			r.Get("/{userId}", controllers.AdminGetUser(deps.UsersService, logg))
			r.Delete("/{userId}", controllers.AdminDeleteUser(deps.UsersService, logg))
		})
	})

	return r
}
