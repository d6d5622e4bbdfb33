package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sbilibin2017/dtc-admin/docs"
	"github.com/sbilibin2017/dtc-admin/internal/config"
	"github.com/sbilibin2017/dtc-admin/internal/handlers"
	"github.com/sbilibin2017/dtc-admin/internal/jwt"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
	"github.com/sbilibin2017/dtc-admin/internal/middlewares"
	"github.com/sbilibin2017/dtc-admin/internal/repositories"
	"github.com/sbilibin2017/dtc-admin/internal/services"
	"github.com/sbilibin2017/dtc-admin/web"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const (
	shutdownTimeout   = 10 * time.Second
	liveHeartbeat     = 25 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// @title dtc-admin API
// @version 1.0.0
// @description Admin dashboard backend for moderating tracked DTC profiles
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// dependencies are the live clients shared by the HTTP routes.
type dependencies struct {
	db          *sqlx.DB
	rdb         *redis.Client
	kafkaWriter services.KafkaWriter
	static      fs.FS
}

// newKafkaWriter builds the shared writer. Requests publish synchronously,
// so batches are flushed after BatchTimeout rather than kafka-go's 1s default.
func newKafkaWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.KafkaWriteTimeout,
		BatchTimeout:           cfg.KafkaBatchTimeout,
		AllowAutoTopicCreation: true,
	}
}

// run initializes the logger, Postgres, Redis, Kafka, the gRPC health
// listener and the HTTP server, then blocks until ctx ends or a
// termination signal arrives.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infow("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// PostgreSQL
	logger.Log.Infow("connecting to PostgreSQL", "host", cfg.PostgresHost, "port", cfg.PostgresPort, "db", cfg.PostgresDB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("postgres connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)

	if cfg.PostgresAutoMigrate {
		if err := repositories.Migrate(ctx, db); err != nil {
			return fmt.Errorf("postgres migration failed: %w", err)
		}
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := newKafkaWriter(cfg)
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("kafka publishing enabled", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Log.Warn("KAFKA_BROKERS is empty, audit and recovery messages will not be published")
	}

	var static fs.FS = web.FS
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
	}

	router := newRouter(cfg, dependencies{
		db:          db,
		rdb:         rdb,
		kafkaWriter: kafkaWriter,
		static:      static,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// gRPC health
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		return fmt.Errorf("gRPC listen failed: %w", err)
	}
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// Graceful shutdown
	errChan := make(chan error, 2)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.HTTPAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	go func() {
		logger.Log.Infof("gRPC health server listening on %s", grpcLis.Addr())
		if err := grpcSrv.Serve(grpcLis); err != nil && err != grpc.ErrServerStopped {
			errChan <- fmt.Errorf("gRPC server failed: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping servers...")
	case serveErr = <-errChan:
		logger.Log.Errorw("server failed, shutting down", "error", serveErr)
	}

	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}
	grpcSrv.GracefulStop()

	logger.Log.Info("servers stopped gracefully")
	return serveErr
}

// newRouter builds the repositories, services and handlers and mounts them
// on a chi router: the JSON API under /api/v1, Swagger UI and the
// dashboard pages.
func newRouter(cfg *config.Config, deps dependencies) http.Handler {
	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(cfg.JWTExp),
		jwt.WithRecoveryExpiration(cfg.RecoverySessionExp),
	)

	// Repositories
	userReadRepo := repositories.NewUserReadRepository(deps.db)
	userWriteRepo := repositories.NewUserWriteRepository(deps.db)
	recoveryRepo := repositories.NewRecoveryTokenRepository(deps.rdb)
	profileReadRepo := repositories.NewProfileReadRepository(deps.db)
	profileWriteRepo := repositories.NewProfileWriteRepository(deps.db, middlewares.GetTxFromContext)
	profileEventRepo := repositories.NewProfileEventRepository(deps.rdb)

	// Services
	authService := services.NewAuthService(
		userReadRepo, userWriteRepo, tokens, recoveryRepo, deps.kafkaWriter,
		services.RecoveryOptions{
			BaseURL: cfg.BaseURL,
			TTL:     cfg.RecoveryTokenTTL,
			Topic:   cfg.KafkaRecoveryTopic,
		},
	)
	profileService := services.NewProfileService(
		profileReadRepo, profileWriteRepo, profileEventRepo, deps.kafkaWriter,
		cfg.KafkaEventsTopic, middlewares.AfterCommit,
	)

	// Handlers
	cookies := handlers.CookieOptions{Secure: cfg.CookieSecure, MaxAge: cfg.JWTExp}
	claims := middlewares.GetClaimsFromContext

	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService, cookies)
	logoutHandler := handlers.NewLogoutHandler(cookies)
	forgotPasswordHandler := handlers.NewForgotPasswordHandler(authService)
	recoverHandler := handlers.NewRecoverHandler(authService, tokens.RecoveryExpiration(), cookies)
	updatePasswordHandler := handlers.NewUpdatePasswordHandler(authService, claims, cookies)

	listProfilesHandler := handlers.NewListProfilesHandler(profileService)
	columnsHandler := handlers.NewColumnsHandler()
	liveHandler := handlers.NewProfileLiveHandler(profileEventRepo, liveHeartbeat)
	getProfileHandler := handlers.NewGetProfileHandler(profileService)
	createProfileHandler := handlers.NewCreateProfileHandler(profileService, claims)
	updateProfileHandler := handlers.NewUpdateProfileHandler(profileService, claims)

	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"postgres": deps.db.PingContext,
		"redis": func(ctx context.Context) error {
			return deps.rdb.Ping(ctx).Err()
		},
	})

	page := handlers.NewPageHandler(deps.static)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.RateLimitAuthRPM > 0 {
					r.Use(httprate.LimitByIP(cfg.RateLimitAuthRPM, time.Minute))
				}
				r.Post("/register", registerHandler)
				r.Post("/login", loginHandler)
				r.Post("/forgot-password", forgotPasswordHandler)
			})
			r.Post("/logout", logoutHandler)
			r.Get("/recover", recoverHandler)
			r.With(middlewares.AuthMiddleware(tokens, jwt.PurposeSession, jwt.PurposeRecovery)).
				Post("/update-password", updatePasswordHandler)
		})

		r.Route("/dtc-profiles", func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokens))
			r.Get("/", listProfilesHandler)
			r.Get("/columns", columnsHandler)
			r.Get("/live", liveHandler)
			r.Get("/{id}", getProfileHandler)

			r.Group(func(r chi.Router) {
				r.Use(middlewares.TxMiddleware(deps.db))
				r.Post("/", createProfileHandler)
				r.Patch("/{id}", updateProfileHandler)
			})
		})
	})

	docs.SwaggerInfo.Host = swaggerHost(cfg)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(cfg.BaseURL+"/swagger/doc.json"),
	))

	// Dashboard pages
	r.Group(func(r chi.Router) {
		r.Use(middlewares.GuestOnlyMiddleware(tokens))
		r.Get(middlewares.LoginPath, page)
		r.Get("/register", page)
		r.Get("/forgot-password", page)
	})
	r.Get(handlers.UpdatePasswordPagePath, page)
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireSessionMiddleware(tokens))
		r.Get(middlewares.ProfilesPath, page)
		r.Get(middlewares.ProfilesPath+"/*", page)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, middlewares.ProfilesPath, http.StatusFound)
	})
	r.Handle("/assets/*", handlers.NewAssetsHandler(deps.static))
	// Unknown paths need a session too, so guests land on the login page.
	r.NotFound(middlewares.RequireSessionMiddleware(tokens)(
		handlers.NewNotFoundPageHandler(deps.static),
	).ServeHTTP)

	return r
}

// swaggerHost returns host[:port] of the public base URL, falling back to
// the listen address.
func swaggerHost(cfg *config.Config) string {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" {
		return cfg.HTTPAddr()
	}
	return u.Host
}
