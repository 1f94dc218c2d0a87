package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TechsCEO/huma-tour/internal/handlers"
	appjwt "github.com/TechsCEO/huma-tour/internal/jwt"
	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/middlewares"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/repositories"
	"github.com/TechsCEO/huma-tour/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title huma-tour API
// @version 1.0.0
// @description Tour booking backend with accounts, roles, and geospatial tour queries
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		mongoURI, mongoDB,
		redisAddr, redisPassword, redisDB, statsCacheTTLSecond,
		kafkaBroker, kafkaTopic,
		jwtSecretKey, jwtExpSecond, jwtCookieExpiresDays,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		mongoURI, mongoDB,
		redisAddr, redisPassword, redisDB, statsCacheTTLSecond,
		kafkaBroker, kafkaTopic,
		jwtSecretKey, jwtExpSecond, jwtCookieExpiresDays,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, MongoDB, Redis, Kafka, logging, and JWT configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	mongoURI, mongoDB string,
	redisAddr, redisPassword string, redisDB, statsCacheTTLSecond int,
	kafkaBroker, kafkaTopic string,
	jwtSecretKey string, jwtExpSecond, jwtCookieExpiresDays int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// MongoDB config
	mongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB = getEnv("MONGO_DB", "huma_tour")

	// Redis config
	redisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	if statsCacheTTLSecond, err = strconv.Atoi(getEnv("STATS_CACHE_TTL_SECOND", "300")); err != nil {
		return
	}

	// Kafka config, optional. Auth events are skipped without a broker.
	kafkaBroker = getEnv("KAFKA_BROKER", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "auth-events")

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "86400")); err != nil {
		return
	}
	if jwtCookieExpiresDays, err = strconv.Atoi(getEnv("JWT_COOKIE_EXPIRES_DAYS", "90")); err != nil {
		return
	}

	return
}

// run initializes the logger, MongoDB, Redis, Kafka, and the HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	mongoURI, mongoDB string,
	redisAddr, redisPassword string, redisDB, statsCacheTTLSecond int,
	kafkaBroker, kafkaTopic string,
	jwtSecretKey string, jwtExpSecond, jwtCookieExpiresDays int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to MongoDB
	logger.Log.Infof("Connecting to MongoDB: %s", mongoURI)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("MongoDB connection error: %w", err)
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	db := client.Database(mongoDB)

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka writer for auth events, optional
	var kafkaWriter services.KafkaWriter
	if kafkaBroker != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(kafkaBroker),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infof("Kafka writer initialized for topic %s", kafkaTopic)
	}

	// Initialize JWT service
	jwt := appjwt.New(
		appjwt.WithSecretKey(jwtSecretKey),
		appjwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	tourReadRepo := repositories.NewTourReadRepository(db)
	tourWriteRepo := repositories.NewTourWriteRepository(db)
	reviewReadRepo := repositories.NewReviewReadRepository(db)
	reviewWriteRepo := repositories.NewReviewWriteRepository(db)
	statsCacheRepo := repositories.NewTourStatsCacheRepository(rdb, time.Duration(statsCacheTTLSecond)*time.Second)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwt, kafkaWriter)
	userService := services.NewUserService(userReadRepo, userWriteRepo)
	tourService := services.NewTourService(tourReadRepo, tourWriteRepo, statsCacheRepo)
	reviewService := services.NewReviewService(reviewReadRepo, reviewWriteRepo)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	authMiddleware := middlewares.AuthMiddleware(jwt)

	// Public routes
	r.Post("/auth/signUp", handlers.NewSignUpHandler(authService, jwtCookieExpiresDays))
	r.Post("/auth/login", handlers.NewLoginHandler(authService, jwtCookieExpiresDays))
	r.Get("/auth/logout", handlers.NewLogoutHandler())
	r.Post("/auth/forgotPassword", handlers.NewForgotPasswordHandler(authService))
	r.Patch("/auth/resetPassword/{token}", handlers.NewResetPasswordHandler(authService, jwtCookieExpiresDays))

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Patch("/auth/updateMyPassword", handlers.NewUpdateMyPasswordHandler(authService, jwtCookieExpiresDays))

		r.Get("/user/getMe", handlers.NewGetMeHandler(userService))
		r.Patch("/user/updateMe", handlers.NewUpdateMeHandler(userService))
		r.Delete("/user/deleteMe", handlers.NewDeleteMeHandler(userService))

		r.With(middlewares.RequireRoles(models.RoleAdmin)).
			Get("/users", handlers.NewListUsersHandler(userService))
		r.Post("/user", handlers.NewCreateUserHandler(userService))
		r.Get("/user/{id}", handlers.NewGetUserHandler(userService))
		r.Patch("/user/{id}", handlers.NewUpdateUserHandler(userService))
		r.With(middlewares.RequireRoles(models.RoleAdmin, models.RoleLeadGuide)).
			Delete("/user/{id}", handlers.NewDeleteUserHandler(userService))

		r.Get("/tours", handlers.NewListToursHandler(tourService))
		r.With(middlewares.TopToursAlias).
			Get("/top-5-tours", handlers.NewListToursHandler(tourService))
		r.Get("/tour-stats", handlers.NewTourStatsHandler(tourService))
		r.With(middlewares.RequireRoles(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide)).
			Get("/monthly-plan/{year}", handlers.NewMonthlyPlanHandler(tourService))
		r.Get("/tours-within/{distance}/center/{latlng}/unit/{unit}", handlers.NewToursWithinHandler(tourService))
		r.Get("/distances/{latlng}/unit/{unit}", handlers.NewTourDistancesHandler(tourService))
		r.Get("/tour/{id}", handlers.NewGetTourHandler(tourService))

		r.With(middlewares.RequireRoles(models.RoleLeadGuide, models.RoleAdmin)).
			Post("/tour", handlers.NewCreateTourHandler(tourService))
		r.With(middlewares.RequireRoles(models.RoleLeadGuide, models.RoleAdmin)).
			Patch("/tour/{id}", handlers.NewUpdateTourHandler(tourService))
		r.With(middlewares.RequireRoles(models.RoleLeadGuide, models.RoleAdmin)).
			Delete("/tour/{id}", handlers.NewDeleteTourHandler(tourService))

		r.Get("/tour/{id}/reviews", handlers.NewListReviewsHandler(reviewService))
		r.Post("/tour/{id}/review", handlers.NewCreateReviewHandler(reviewService))
		r.With(middlewares.RequireRoles(models.RoleAdmin, models.RoleLeadGuide)).
			Delete("/review/{id}", handlers.NewDeleteReviewHandler(reviewService))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
