package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arjunmehra/eventloft-backend/api/routes"
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
	"github.com/arjunmehra/eventloft-backend/pkg/mailer"
	"github.com/arjunmehra/eventloft-backend/pkg/metrics"
	"github.com/arjunmehra/eventloft-backend/pkg/migrate"
	"github.com/arjunmehra/eventloft-backend/pkg/razorpay"
	"github.com/arjunmehra/eventloft-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "eventloft"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "eventloft",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	rzClient, err := razorpay.NewClient(cfg.Razorpay)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}

	var mail mailer.Mailer
	if cfg.SMTP.Host != "" {
		mail, err = mailer.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			logg.Error(context.Background(), "failed to create smtp mailer", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "smtp not configured, booking email goes to the log")
		mail = mailer.NewLogMailer(logg)
	}

	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	eventRepo := events.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())

	notifier, err := notifications.NewDispatcher(mail, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	eventsService, err := events.NewService(eventRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create events service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		Repo:     bookingRepo,
		Events:   eventRepo,
		Tx:       dbClient,
		Notifier: notifier,
		Config:   cfg.Booking,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Gateway:  rzClient,
		Bookings: bookingRepo,
		Guard:    redisClient,
		Notifier: notifier,
		Metrics:  paymentMetrics,
		Logger:   logg,
		KeyID:    cfg.Razorpay.KeyID,
		Config:   cfg.Booking,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo, bookingRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	overviewService, err := admin.NewOverviewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create overview service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Registry:        registry,
			AuthService:     authService,
			EventsService:   eventsService,
			BookingsService: bookingsService,
			PaymentsService: paymentsService,
			UsersService:    usersService,
			OverviewService: overviewService,
			Notifications:   notifier,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
