package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/linkedin-sync/configs"
	"github.com/maheshrc27/linkedin-sync/internal/api/handlers"
	"github.com/maheshrc27/linkedin-sync/internal/api/middleware"
	job "github.com/maheshrc27/linkedin-sync/internal/jobs"
	"github.com/maheshrc27/linkedin-sync/internal/queue"
	"github.com/maheshrc27/linkedin-sync/internal/repository"
	"github.com/maheshrc27/linkedin-sync/internal/service"
	"github.com/robfig/cron"
)

const connMaxIdleTime = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	db.SetMaxOpenConns(cfg.Postgres.MaxConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-API-Key",
		MaxAge:       3600,
	}))

	postRepo := repository.NewLinkedInPostRepository(db, cfg.Sync.UpsertTimeout)
	accountRepo := repository.NewLinkedInAccountRepository(db)
	syncRunRepo := repository.NewSyncRunRepository(db)

	httpClient := &http.Client{}
	authService := service.NewLinkedInAuthService(*cfg, httpClient)
	postService := service.NewLinkedInPostService(*cfg, httpClient)

	var archive service.PageArchiver
	if cfg.R2.Enabled() {
		r2Service, err := service.NewR2Service(context.Background(), *cfg)
		if err != nil {
			log.Printf("Raw page archive disabled: %v", err)
		} else {
			archive = r2Service
		}
	}

	syncService := service.NewSyncService(*cfg, authService, postService, postRepo, accountRepo, syncRunRepo, archive)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	linkedin := handlers.NewLinkedInHandler(*cfg, authService, syncService)
	app.Get("/", linkedin.Login)
	app.Get("/callback", linkedin.Callback)
	app.Get("/health", handlers.Health)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	sync := handlers.NewSyncHandler(*cfg, syncService, client)
	api.Post("/sync", sync.TriggerSync)
	api.Get("/sync/runs", sync.ListRuns)

	// cron jobs
	syncJob := job.NewSyncJob(accountRepo, client)

	//queue
	queueW := queue.NewQueue(syncService)

	c := cron.New()
	if err := c.AddFunc(cfg.Sync.Schedule, syncJob.EnqueueSyncs); err != nil {
		log.Fatalf("Invalid SYNC_SCHEDULE %q: %v", cfg.Sync.Schedule, err)
	}
	c.Start()
	defer c.Stop()

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypeSyncPosts, queueW.HandleSyncPostsTask)

	log.Println("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, server)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	server.Shutdown()

	log.Println("Server shutdown complete.")
}
