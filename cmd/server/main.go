package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/adhcode/estate-backend/internal/application"
	"github.com/adhcode/estate-backend/internal/config"
	"github.com/adhcode/estate-backend/internal/infrastructure/notify"
	"github.com/adhcode/estate-backend/internal/infrastructure/repository"
	handlers "github.com/adhcode/estate-backend/internal/interfaces/http"
	"github.com/adhcode/estate-backend/internal/interfaces/ws"
	"github.com/adhcode/estate-backend/internal/scheduler"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Error pinging database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))

	// Repositories
	visitRepo := repository.NewVisitRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	residentRepo := repository.NewResidentRepository(db)
	memberRepo := repository.NewHouseholdMemberRepository(db)
	staffRepo := repository.NewStaffRepository(db)

	// Change feed
	publisher := notify.NewRedisPublisher(rdb, notify.VisitChannel)
	hub := ws.NewHub(rdb, notify.VisitChannel)
	go hub.Run(context.Background())

	// Services
	actorService := application.NewActorService(staffRepo, residentRepo, memberRepo)
	visitService := application.NewVisitService(visitRepo, issueRepo, residentRepo, publisher)
	memberService := application.NewMemberService(memberRepo, residentRepo)
	registrationLimiter := application.NewRateLimiter(1*time.Minute, 10)

	// Handlers
	visitHandler := handlers.NewVisitHandler(visitService, actorService, registrationLimiter)
	memberHandler := handlers.NewMemberHandler(memberService, actorService)

	// No-show sweep
	visitScheduler := scheduler.NewVisitScheduler(visitRepo, cfg.PendingVisitTTLDays)
	visitScheduler.Start()
	defer visitScheduler.Stop()

	api := app.Group("/api", handlers.RequireAuth([]byte(cfg.JWTSecret)))

	// Visit lifecycle and logbook routes
	visits := api.Group("/visits")
	visits.Post("/", visitHandler.RegisterVisit)
	visits.Get("/", visitHandler.ListVisits)
	visits.Get("/overview", visitHandler.GetOverview)
	visits.Get("/history", visitHandler.GetHouseholdHistory)
	visits.Get("/code/:code", visitHandler.GetVisitByCode)
	visits.Get("/code/:code/issues", visitHandler.GetIssues)
	visits.Get("/:id", visitHandler.GetVisitByID)
	visits.Post("/:id/check-in", visitHandler.CheckIn)
	visits.Post("/:id/check-out", visitHandler.CheckOut)
	visits.Post("/:id/cancel", visitHandler.Cancel)
	visits.Post("/:id/issues", visitHandler.ReportIssue)
	visits.Post("/:id/issues/resolve", visitHandler.ResolveIssue)

	// Household member routes
	members := api.Group("/members")
	members.Post("/", memberHandler.AddMember)
	members.Get("/", memberHandler.ListMembers)

	// Dashboard change feed
	app.Use("/ws", ws.UpgradeGuard)
	app.Get("/ws/visits", hub.Handler())

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
