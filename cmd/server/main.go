package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kiwilearn/internal/config"
	"kiwilearn/internal/database"
	"kiwilearn/internal/handlers"
	"kiwilearn/internal/questions"
	"kiwilearn/internal/repository"
	"kiwilearn/internal/service"
)

func main() {
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	petRepo := repository.NewPetRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	linkRepo := repository.NewLinkRepository(db)

	// Initialize services
	questionService := questions.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	authService := service.NewAuthService(userRepo, cfg.SessionSecret, cfg.SessionDuration)
	progressionService := service.NewProgressionService(userRepo, sessionRepo, achievementRepo, petRepo, storyRepo)
	practiceService := service.NewPracticeService(userRepo, sessionRepo, questionService, progressionService)
	storyService := service.NewStoryService(storyRepo, userRepo)
	petService := service.NewPetService(petRepo, userRepo)
	linkService := service.NewLinkService(linkRepo, userRepo, sessionRepo, emailService)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	practiceHandler := handlers.NewPracticeHandler(practiceService, storyService)
	storyHandler := handlers.NewStoryHandler(storyService)
	petHandler := handlers.NewPetHandler(petService)
	achievementHandler := handlers.NewAchievementHandler(progressionService)
	studentHandler := handlers.NewStudentHandler(linkService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("GET /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/user", middleware.RequireAuth(authHandler.CurrentUser))

	// Practice routes
	mux.HandleFunc("POST /api/practice-sessions", middleware.RequireAuth(practiceHandler.StartSession))
	mux.HandleFunc("GET /api/practice-sessions", middleware.RequireAuth(practiceHandler.AllSessions))
	mux.HandleFunc("GET /api/practice-sessions/recent", middleware.RequireAuth(practiceHandler.RecentSessions))
	mux.HandleFunc("POST /api/practice-sessions/{id}/complete", middleware.RequireAuth(practiceHandler.CompleteSession))
	mux.HandleFunc("GET /api/practice-sessions/{id}/questions", middleware.RequireAuth(practiceHandler.SessionQuestions))
	mux.HandleFunc("POST /api/questions/generate", middleware.RequireAuth(practiceHandler.GenerateQuestion))
	mux.HandleFunc("POST /api/questions/validate", middleware.RequireAuth(practiceHandler.ValidateAnswer))

	// Story routes
	mux.HandleFunc("GET /api/stories", middleware.RequireAuth(storyHandler.List))
	mux.HandleFunc("GET /api/stories/{id}", middleware.RequireAuth(storyHandler.Get))
	mux.HandleFunc("POST /api/stories/{id}/start", middleware.RequireAuth(storyHandler.Start))
	mux.HandleFunc("POST /api/stories/{id}/chapters/{chapterNumber}/complete", middleware.RequireAuth(storyHandler.CompleteChapter))

	// Pet routes
	mux.HandleFunc("POST /api/pets", middleware.RequireAuth(petHandler.Adopt))
	mux.HandleFunc("GET /api/pets/mine", middleware.RequireAuth(petHandler.Get))
	mux.HandleFunc("POST /api/pets/feed", middleware.RequireAuth(petHandler.Feed))

	// Achievement routes
	mux.HandleFunc("GET /api/achievements", middleware.RequireAuth(achievementHandler.Catalog))
	mux.HandleFunc("GET /api/achievements/mine", middleware.RequireAuth(achievementHandler.Mine))

	// Supervisor routes
	mux.HandleFunc("POST /api/links", middleware.RequireAuth(studentHandler.CreateLink))
	mux.HandleFunc("POST /api/links/{id}/approve", middleware.RequireAuth(studentHandler.ApproveLink))
	mux.HandleFunc("DELETE /api/links/{id}", middleware.RequireAuth(studentHandler.DeleteLink))
	mux.HandleFunc("GET /api/students", middleware.RequireAuth(studentHandler.ListStudents))
	mux.HandleFunc("GET /api/students/{id}/stats", middleware.RequireAuth(studentHandler.StudentStats))

	handler := middleware.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background pet hunger decay
	go decayPetHunger(petService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// decayPetHunger periodically increases pet hunger based on time since
// last feeding
func decayPetHunger(petService *service.PetService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		petService.DecayHunger(time.Now())
		log.Println("Pet hunger decay sweep completed")
	}
}
