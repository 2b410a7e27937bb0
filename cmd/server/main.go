package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/api/handlers"
	"github.com/maheshrc27/contentflow/internal/api/middleware"
	job "github.com/maheshrc27/contentflow/internal/jobs"
	"github.com/maheshrc27/contentflow/internal/queue"
	"github.com/maheshrc27/contentflow/internal/realtime"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer logging.GetLogger().Sync()
	srvLog := logging.WithComponent("server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		srvLog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer closeDB(db)

	if err := db.PingContext(ctx); err != nil {
		srvLog.Fatal("Database is unreachable", zap.Error(err))
	}
	if err := repository.Migrate(ctx, db); err != nil {
		srvLog.Fatal("Failed to migrate database", zap.Error(err))
	}

	feed := repository.NewChangeFeed()
	go func() {
		if err := repository.ListenPostChanges(ctx, cfg.PostgresURI, feed); err != nil {
			srvLog.Error("Change listener stopped", zap.Error(err))
		}
	}()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	postRepo := repository.NewPostRepository(db, feed)
	userRepo := repository.NewUserRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	financeRepo := repository.NewFinanceRepository(db)

	scheduler := queue.NewScheduler(client, cfg.Location())

	postOpts := []service.PostServiceOption{}
	if cfg.AutoPublish {
		postOpts = append(postOpts, service.WithPublishScheduler(scheduler))
	}
	if cfg.R2.Enabled() {
		archive, err := service.NewArchiveService(ctx, cfg.R2)
		if err != nil {
			srvLog.Fatal("Failed to configure R2 archive", zap.Error(err))
		}
		postOpts = append(postOpts, service.WithArchiver(archive))
	}

	postService := service.NewPostService(postRepo, postOpts...)
	authService := service.NewAuthService(cfg, userRepo)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)
	referenceService := service.NewReferenceService(clientRepo, campaignRepo, libraryRepo)
	financeService := service.NewFinanceService(financeRepo)

	hub := realtime.NewHub(postRepo)

	app := fiber.New(fiber.Config{
		ReadTimeout: 30 * time.Second,
		BodyLimit:   4 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				srvLog.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key, Idempotency-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(cfg, apiKeyService, userService)

	auth := handlers.NewAuthHandler(cfg, authService)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())
	api.Use(middleware.Idempotency(middleware.NewRedisIdempotencyStore(rdb), cfg.IdempotencyTTL))

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Get("/team", user.ListTeam)
	api.Post("/team", user.CreateMember)
	api.Patch("/team/:id", user.UpdateMember)
	api.Delete("/team/:id", user.RemoveMember)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	post := handlers.NewPostHandler(postService, cfg.NotificationWindow)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts", post.SavePost)
	api.Patch("/posts", post.UpdatePosts)
	api.Delete("/posts", post.WipePosts)
	api.Post("/posts/transition", post.TransitionPosts)
	api.Get("/posts/grouped", post.GroupedPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Post("/posts/:id/comments", post.AddComment)
	api.Get("/notifications", post.Notifications)

	live := handlers.NewLiveHandler(hub)
	api.Get("/live", live.Stream)

	reference := handlers.NewReferenceHandler(referenceService)
	api.Get("/clients", reference.ListClients)
	api.Post("/clients", reference.CreateClient)
	api.Put("/clients/:id", reference.UpdateClient)
	api.Delete("/clients/:id", reference.RemoveClient)
	api.Get("/campaigns", reference.ListCampaigns)
	api.Post("/campaigns", reference.CreateCampaign)
	api.Delete("/campaigns/:id", reference.RemoveCampaign)
	api.Get("/templates", reference.ListTemplates)
	api.Post("/templates", reference.CreateTemplate)
	api.Delete("/templates/:id", reference.RemoveTemplate)
	api.Get("/snippets", reference.ListSnippets)
	api.Post("/snippets", reference.CreateSnippet)
	api.Delete("/snippets/:id", reference.RemoveSnippet)

	finance := handlers.NewFinanceHandler(financeService)
	api.Get("/services", finance.ListServices)
	api.Post("/services", finance.SaveService)
	api.Put("/services/:id", finance.SaveService)
	api.Delete("/services/:id", finance.RemoveService)
	api.Get("/invoices", finance.ListInvoices)
	api.Get("/invoices/:id", finance.GetInvoice)
	api.Post("/invoices", finance.SaveInvoice)
	api.Put("/invoices/:id", finance.SaveInvoice)
	api.Delete("/invoices/:id", finance.RemoveInvoice)

	c := cron.New()
	var server *asynq.Server
	if cfg.AutoPublish {
		sweep := job.NewPublishSweepJob(postRepo, scheduler)
		if err := c.AddFunc(cfg.SweepSpec, sweep.Run); err != nil {
			srvLog.Fatal("Invalid sweep schedule", zap.String("spec", cfg.SweepSpec), zap.Error(err))
		}
		c.Start()

		server = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})
		mux := asynq.NewServeMux()
		queue.NewWorker(postService).Register(mux)

		srvLog.Info("Starting the Asynq server...")
		if err := server.Start(mux); err != nil {
			srvLog.Fatal("Could not start Asynq server", zap.Error(err))
		}
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			srvLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	srvLog.Info("Server is running", zap.String("port", cfg.Port), zap.Bool("auto_publish", cfg.AutoPublish))

	gracefulShutdown(app, func() {
		cancel()
		hub.Close()
		c.Stop()
		if server != nil {
			server.Shutdown()
		}
	})
}

func closeDB(db *sql.DB) {
	logger := logging.WithComponent("server")
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
		return
	}
	logger.Info("Database connection closed")
}

// gracefulShutdown blocks until SIGINT or SIGTERM, runs stop so background
// work and open live streams end, then drains the HTTP server.
func gracefulShutdown(app *fiber.App, stop func()) {
	logger := logging.WithComponent("server")
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("Shutting down server...")

	stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Failed to shut down server", zap.Error(err))
	}
	logger.Info("Server shutdown complete.")
}
