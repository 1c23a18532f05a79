package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/db"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/handlers"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/mail"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/metrics"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/mq"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/session"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/views"
)

// Repositories groups the three tables behind whichever store is active.
type Repositories struct {
	Users      services.UserRepository
	Classrooms services.ClassroomRepository
	Bookings   services.BookingRepository
}

// OpenRepositories returns the in-memory store when cfg.UseMemoryStore is
// set. Otherwise it connects to Postgres and applies pending migrations;
// the returned *sql.DB is nil for the memory store.
func OpenRepositories(ctx context.Context, cfg config.Config) (Repositories, *sql.DB, error) {
	if cfg.UseMemoryStore {
		mem := store.NewMemoryStore()
		return Repositories{Users: mem.Users, Classrooms: mem.Classrooms, Bookings: mem.Bookings}, nil, nil
	}

	if err := db.MigrateUp(cfg); err != nil {
		return Repositories{}, nil, fmt.Errorf("migrate: %w", err)
	}
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return Repositories{}, nil, err
	}
	return Repositories{
		Users:      store.NewUserRepository(dbConn),
		Classrooms: store.NewClassroomRepository(dbConn),
		Bookings:   store.NewBookingRepository(dbConn),
	}, dbConn, nil
}

// Option customizes a Server under construction.
type Option func(*options)

type options struct {
	mailSender mail.Sender
}

// WithMailSender replaces the sender built from cfg.Mail.
func WithMailSender(sender mail.Sender) Option {
	return func(o *options) {
		o.mailSender = sender
	}
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	redis      *redis.Client
	events     *mq.EventBus
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{}
	ok := false
	defer func() {
		if !ok {
			s.closeResources()
		}
	}()

	repos, dbConn, err := OpenRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.db = dbConn

	result, err := services.NewSeeder(repos.Users, repos.Classrooms).Seed(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if result.AdminCreated || result.RoomsCreated > 0 {
		log.Printf("seeded admin=%t rooms=%d", result.AdminCreated, result.RoomsCreated)
	}

	if cfg.Session.Backend == "redis" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
	}
	sessions, err := session.NewManager(cfg.Session, s.redis)
	if err != nil {
		return nil, err
	}

	sender := o.mailSender
	if sender == nil {
		if sender, err = mail.NewSender(cfg.Mail); err != nil {
			return nil, err
		}
	}

	var publisher services.EventPublisher
	backend, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return nil, err
	}
	if backend != nil {
		s.events = mq.NewEventBus(backend, cfg.MQ.Channel)
		publisher = s.events
	}

	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	otp := services.NewOTPService(repos.Users, sender)
	userService := services.NewUserService(repos.Users, publisher)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", metrics.Handler())
	handlers.Mount(router, handlers.Dependencies{
		Sessions:  sessions,
		Accounts:  services.NewAccountService(repos.Users, otp, publisher),
		Users:     userService,
		Rooms:     services.NewRoomService(repos.Classrooms, publisher),
		Bookings:  services.NewBookingService(repos.Bookings, repos.Classrooms, publisher),
		Dashboard: services.NewDashboardService(repos.Users, repos.Classrooms, repos.Bookings),
		Renderer:  renderer,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8000
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	ok = true
	return s, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	log.Printf("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is
// done and then releases the backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeResources()
	return err
}

func (s *Server) closeResources() {
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			log.Printf("close event bus: %v", err)
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
