package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kakunuriMahesh/doctor-appointments/internal/booking"
	"github.com/kakunuriMahesh/doctor-appointments/internal/http/handlers"
	imw "github.com/kakunuriMahesh/doctor-appointments/internal/http/middleware"
	"github.com/kakunuriMahesh/doctor-appointments/internal/platform/mailer"
	"github.com/kakunuriMahesh/doctor-appointments/internal/repo/postgres"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/config"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/database"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/events"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/logger"
	mw "github.com/kakunuriMahesh/doctor-appointments/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MinConns, cfg.Database.MaxConns, cfg.Database.MaxLifetime)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// NATS and Redis are adjuncts: events and rate limits degrade when they
	// are down, bookings do not.
	var bus *events.NATSEventBus
	if b, err := events.NewNATSEventBus(cfg.NATS.URL); err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err)
	} else {
		bus = b
		defer bus.Close()
	}

	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("invalid Redis URL, rate limiting disabled", "error", err)
	} else {
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	emailSvc := newMailer(cfg)

	var pub events.Publisher
	if bus != nil {
		pub = bus
		startNotifyConsumer(bus, emailSvc)
	}

	bookingSvc := booking.NewService(store, pub, cfg.Clinic.DoctorID)

	adminH := handlers.NewAdminHandler(store, emailSvc, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.ResetTokenTTL)
	settingsH := handlers.NewSettingsHandler(store, cfg.Clinic.DoctorID)
	couponH := handlers.NewCouponHandler(store, pub)
	availH := handlers.NewAvailabilityHandler(store, cfg.Clinic.DoctorID)
	apptH := handlers.NewAppointmentsHandler(bookingSvc)

	limiter := imw.NewRateLimiter(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, "admin")
	idem := imw.NewIdempotency(rdb)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("appointments"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Mount("/admin", limiter.Middleware()(adminH.Routes()))

		apptH.RegisterPublic(api)

		api.Group(func(priv chi.Router) {
			priv.Use(imw.RequireJWT(cfg.Auth.JWTSecret))
			settingsH.Register(priv)
			couponH.Register(priv)
			availH.Register(priv)
			apptH.RegisterProtected(priv, idem.Middleware())
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting appointments API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func newMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom,
			cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}
}

// startNotifyConsumer emails a confirmation for every booked appointment.
// Queue group so only one instance sends when several run.
func startNotifyConsumer(bus *events.NATSEventBus, emailSvc mailer.Service) {
	err := bus.QueueSubscribe(events.AppointmentBooked, "notify", func(msg *events.Message) {
		var ev events.AppointmentBookedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("bad booked event payload", "error", err)
			return
		}
		name := ev.FirstName + " " + ev.LastName
		if err := emailSvc.SendBookingConfirmation(ev.Email, name, ev.AppointmentDate, ev.AppointmentTime,
			ev.Price, ev.MeetingLink, ev.RebookingCode); err != nil {
			logger.Error("confirmation email not sent", "error", err, "appointment_id", ev.AppointmentID)
		}
	})
	if err != nil {
		logger.Warn("notify consumer not started", "error", err)
	}
}
