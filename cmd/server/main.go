package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"payout_vault/internal/auth"
	"payout_vault/internal/config"
	"payout_vault/internal/custodian"
	"payout_vault/internal/database"
	"payout_vault/internal/handlers"
	"payout_vault/internal/middleware"
	"payout_vault/internal/models"
	"payout_vault/internal/repository"
	"payout_vault/internal/services"
)

// App holds the application dependencies.
type App struct {
	config            *config.Config
	db                *database.DB
	router            *chi.Mux
	operatorRepo      *repository.OperatorRepository
	withdrawalRepo    *repository.WithdrawalRepository
	invoiceRepo       *repository.InvoiceRepository
	sessionManager    *auth.SessionManager
	authMiddleware    *middleware.AuthMiddleware
	authHandler       *handlers.AuthHandler
	withdrawalHandler *handlers.WithdrawalHandler
	invoiceHandler    *handlers.InvoiceHandler
	auditHandler      *handlers.AuditHandler
}

func main() {
	// Load configuration
	cfg := config.New()

	// Initialize database
	db, err := database.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Create default operator if none exist
	operatorRepo := repository.NewOperatorRepository(db)
	if err := ensureDefaultOperator(operatorRepo); err != nil {
		log.Fatalf("Failed to ensure default operator: %v", err)
	}

	// Custodian API client
	client, err := custodian.NewClient(cfg.CustodianURL, cfg.CustodianToken)
	if err != nil {
		log.Fatalf("Failed to create custodian client: %v", err)
	}

	// Repositories
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Services
	auditService := services.NewAuditService(db)
	withdrawalService := services.NewWithdrawalService(client, withdrawalRepo, auditService)
	invoiceService := services.NewInvoiceService(invoiceRepo, auditService, cfg.DepositAddress)

	// Session manager
	sessionManager := auth.NewSessionManager(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionManager, operatorRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(operatorRepo, sessionManager, auditService, cfg.SessionMaxAge)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Create application
	app := &App{
		config:            cfg,
		db:                db,
		operatorRepo:      operatorRepo,
		withdrawalRepo:    withdrawalRepo,
		invoiceRepo:       invoiceRepo,
		sessionManager:    sessionManager,
		authMiddleware:    authMiddleware,
		authHandler:       authHandler,
		withdrawalHandler: withdrawalHandler,
		invoiceHandler:    invoiceHandler,
		auditHandler:      auditHandler,
	}

	// Setup router
	app.setupRouter()

	// Clean expired sessions periodically
	go app.sessionCleanupLoop()

	// Create server
	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://%s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func (app *App) setupRouter() {
	r := chi.NewRouter()

	// Chi middleware (aliased as chimw to avoid conflict with our middleware package)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)

	// Security headers for all responses
	r.Use(middleware.SecurityHeaders)

	// Load operator from session for all routes
	r.Use(app.authMiddleware.LoadOperator)

	// Health check
	r.Get("/health", app.handleHealth)

	// Auth routes, rate limited to prevent brute force attacks
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitAuth)
		r.Post("/login", app.authHandler.Login)
	})
	r.Post("/logout", app.authHandler.Logout)

	// Protected API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(app.authMiddleware.RequireAuth)
		r.Use(middleware.LimitAPI)

		r.Get("/me", app.authHandler.Me)
		r.Get("/balance", app.withdrawalHandler.Balance)
		r.Get("/withdrawals", app.withdrawalHandler.List)

		// Withdrawals move funds; keep the strictest limit here.
		r.Group(func(r chi.Router) {
			r.Use(middleware.LimitStrict)
			r.Post("/withdrawals", app.withdrawalHandler.Create)
		})

		r.Post("/invoices", app.invoiceHandler.Create)
		r.Get("/invoices", app.invoiceHandler.List)
		r.Get("/invoices/{reference}", app.invoiceHandler.Get)
		r.Post("/invoices/{reference}/paid", app.invoiceHandler.MarkPaid)
		r.Get("/invoices/{reference}/qr", app.invoiceHandler.QRCode)

		// Audit trail is admin only
		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.RequireAdmin)
			r.Get("/audit", app.auditHandler.List)
		})
	})

	app.router = r
}

// handleHealth returns the server health status.
func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// sessionCleanupLoop removes expired sessions periodically.
func (app *App) sessionCleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		count, err := app.sessionManager.CleanExpired()
		if err != nil {
			log.Printf("Session cleanup failed: %v", err)
			continue
		}
		if count > 0 {
			log.Printf("Cleaned %d expired sessions", count)
		}
	}
}

// ensureDefaultOperator creates a default admin operator if none exist.
func ensureDefaultOperator(operatorRepo *repository.OperatorRepository) error {
	count, err := operatorRepo.CountAll()
	if err != nil {
		return fmt.Errorf("counting operators: %w", err)
	}

	if count > 0 {
		return nil // Operators exist, nothing to do
	}

	passwordHash, err := auth.HashPassword("changeme")
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin := &models.Operator{
		Username:     "admin",
		PasswordHash: passwordHash,
		IsAdmin:      true,
	}

	if _, err := operatorRepo.Create(admin); err != nil {
		return fmt.Errorf("creating admin operator: %w", err)
	}

	log.Println("========================================")
	log.Println("DEFAULT OPERATOR CREATED")
	log.Println("Username: admin")
	log.Println("Password: changeme")
	log.Println("You MUST change this password!")
	log.Println("========================================")

	return nil
}
