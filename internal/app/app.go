package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oceanview/resort-reservation-system/internal/domain"
	"github.com/oceanview/resort-reservation-system/internal/mailer"
	"github.com/oceanview/resort-reservation-system/internal/repository"
	appvalidator "github.com/oceanview/resort-reservation-system/internal/validator"
	"github.com/oceanview/resort-reservation-system/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/shopspring/decimal"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager

	// now supplies the current time to everything that needs a "today",
	// so the check-in date rule stays deterministic under test.
	now func() time.Time

	userRepo        domain.UserRepository
	guestRepo       domain.GuestRepository
	roomRepo        domain.RoomRepository
	reservationRepo domain.ReservationRepository
	paymentRepo     domain.PaymentRepository
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	Billing          BillingConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// BillingConfig carries the resort-wide billing parameters. It is built
// once at startup and passed around as a value; nothing mutates it after
// that.
type BillingConfig struct {
	TaxPercent           decimal.Decimal
	ServiceChargePercent decimal.Decimal
	Currency             string
}

func Run() error {
	var cfg Config
	var taxPercent, serviceChargePercent float64

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "Ocean View Resort <no-reply@oceanviewresort.example>", "SMTP sender")

	flag.Float64Var(&taxPercent, "billing-tax-percent", 10.0, "Tax percentage applied to the taxable base")
	flag.Float64Var(&serviceChargePercent, "billing-service-charge-percent", 5.0, "Service charge percentage applied to the taxable base")
	flag.StringVar(&cfg.Billing.Currency, "billing-currency", "USD", "Billing currency code")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	cfg.Billing.TaxPercent = decimal.NewFromFloat(taxPercent)
	cfg.Billing.ServiceChargePercent = decimal.NewFromFloat(serviceChargePercent)

	app, err := New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.Serve()
}

func New(cfg Config) (*Application, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	return NewApp(
		cfg,
		logger,
		db,
		redisClient,
		appvalidator.NewValidator(),
		mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		NewSessionManager(redisClient),
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresGuestRepository(db),
		repository.NewPostgresRoomRepository(db),
		repository.NewPostgresReservationRepository(db),
		repository.NewPostgresPaymentRepository(db),
	), nil
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	mailer mailer.Mailer,
	sessionManager *scs.SessionManager,
	userRepo domain.UserRepository,
	guestRepo domain.GuestRepository,
	roomRepo domain.RoomRepository,
	reservationRepo domain.ReservationRepository,
	paymentRepo domain.PaymentRepository,
) *Application {
	return &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       validator,
		mailer:          mailer,
		sessionManager:  sessionManager,
		now:             time.Now,
		userRepo:        userRepo,
		guestRepo:       guestRepo,
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
	}
}

func (app *Application) Close() {
	app.db.Close()
	_ = app.redis.Close()
}

func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 30 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) Serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("resort-reservation-api", otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Post("/users", app.RegisterUser)
	r.Post("/auth/login", app.Login)
	r.Post("/auth/logout", app.Logout)

	r.With(app.requireAuthentication).Get("/users/me", app.GetCurrentUser)
	r.With(app.requireAuthentication).Get("/users/me/reservations", app.GetReservationsOfUser)

	r.Get("/rooms", app.GetRooms)
	r.Get("/rooms/{roomId}", app.GetRoom)
	r.With(app.requireAuthentication, app.requireRole(domain.RoleStaff, domain.RoleAdmin)).
		Get("/rooms/{roomId}/reservations", app.GetRoomReservations)

	r.With(app.requireAuthentication).Route("/reservations", func(r chi.Router) {
		r.Post("/", app.CreateReservation)
		r.Get("/{reservationId}", app.GetReservation)
		r.Patch("/{reservationId}", app.UpdateReservation)
		r.Post("/{reservationId}/cancel", app.CancelReservation)

		r.With(app.requireRole(domain.RoleStaff, domain.RoleAdmin)).Group(func(r chi.Router) {
			r.Get("/", app.GetReservations)
			r.Get("/arrivals", app.GetTodayArrivals)
			r.Get("/departures", app.GetTodayDepartures)
			r.Get("/number/{reservationNumber}", app.GetReservationByNumber)
			r.Post("/{reservationId}/confirm", app.ConfirmReservation)
			r.Post("/{reservationId}/check-in", app.CheckInReservation)
			r.Post("/{reservationId}/check-out", app.CheckOutReservation)
			r.Post("/{reservationId}/payments", app.RecordPayment)
			r.Get("/{reservationId}/payments", app.GetReservationPayments)
		})
	})

	r.With(app.requireAuthentication, app.requireRole(domain.RoleAdmin)).
		Post("/payments/{paymentId}/refund", app.RefundPayment)

	return r
}
