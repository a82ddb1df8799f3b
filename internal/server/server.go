package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/fluffle/apiserver/config"
	"github.com/fluffle/apiserver/internal/db"
	"github.com/fluffle/apiserver/internal/handlers"
	"github.com/fluffle/apiserver/internal/mq"
	"github.com/fluffle/apiserver/internal/services"
	"github.com/fluffle/apiserver/internal/session"
	"github.com/fluffle/apiserver/internal/storage"
	"github.com/fluffle/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

// Server wraps the HTTP server and its long-lived resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	redis      *redis.Client
	publisher  *mq.Publisher
}

// New constructs a Server with the full handler stack wired from config.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	waypointRepo := store.NewWaypointRepository(dbConn)
	referenceRepo := store.NewReferenceRepository(dbConn)

	accountService := services.NewAccountService(userRepo)
	waypointService := services.NewWaypointService(waypointRepo)
	referenceService := services.NewReferenceService(referenceRepo)

	var redisClient *redis.Client
	var sessionStore session.Store
	switch cfg.Session.Backend {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		sessionStore = session.NewRedisStore(redisClient)
	default:
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, cfg.Session.CookieName, cfg.Session.TTL)

	icons, err := newIconStore(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		sessions.Middleware,
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AccountRouter(router, accountService, sessions)
	handlers.WaypointRouter(router, waypointService, publisher)
	handlers.ReferenceRouter(router, referenceService, icons)

	// the map UI and its assets are served verbatim when a directory is
	// configured
	if cfg.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.StaticDir))
		router.Handle("/*", fileServer)
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		redis:      redisClient,
		publisher:  publisher,
	}, nil
}

func newIconStore(ctx context.Context, cfg config.Config) (*storage.IconStore, error) {
	switch cfg.Storage.Backend {
	case "minio":
		backend, err := storage.NewMinioBackend(cfg.Storage.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewIconStore(backend), nil
	case "gcs":
		backend, err := storage.NewGCSBackend(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, err
		}
		return storage.NewIconStore(backend), nil
	default:
		return nil, nil
	}
}

func newPublisher(ctx context.Context, cfg config.Config) (*mq.Publisher, error) {
	switch cfg.MQ.Backend {
	case "rabbitmq":
		backend, err := mq.NewRabbitMQBackend(cfg.MQ.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.NewPublisher(backend, cfg.MQ.SightingsChannel), nil
	case "pubsub":
		backend, err := mq.NewPubSubBackend(ctx, cfg.MQ.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.NewPublisher(backend, cfg.MQ.SightingsChannel), nil
	default:
		return nil, nil
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown, closing held resources.
func (s *Server) Shutdown() error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
