package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/makaohq/makao-api/docs" // Swagger docs
	"github.com/makaohq/makao-api/internal/config"
	"github.com/makaohq/makao-api/internal/database"
	"github.com/makaohq/makao-api/internal/handlers"
	"github.com/makaohq/makao-api/internal/jobs"
	"github.com/makaohq/makao-api/internal/middleware"
	"github.com/makaohq/makao-api/internal/repository"
	"github.com/makaohq/makao-api/internal/services"
	"github.com/makaohq/makao-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Makao API
// @version 1.0
// @description REST API for the Makao Property Management Platform

// @contact.name API Support
// @contact.email support@makao.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, repos, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Check)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Tenant and property management
				admin.POST("/tenants", h.Tenant.Create)
				admin.PUT("/tenants/:tenant_id", h.Tenant.Update)
				admin.DELETE("/tenants/:tenant_id", h.Tenant.Delete)
				admin.POST("/properties", h.Property.Create)
				admin.PUT("/properties/:property_id", h.Property.Update)
				admin.POST("/properties/:property_id/units", h.Property.CreateUnit)

				// Destructive billing operations
				admin.DELETE("/bills/:bill_id", h.Bill.Delete)
				admin.POST("/bills/:bill_id/cancel", h.Bill.Cancel)
				admin.POST("/invoices/:invoice_id/cancel", h.Invoice.Cancel)

				// Demand letter lifecycle
				admin.POST("/demand_letters", h.DemandLetter.Create)
				admin.POST("/demand_letters/:letter_id/generate", h.DemandLetter.Generate)
				admin.POST("/demand_letters/:letter_id/send", h.DemandLetter.Send)
				admin.POST("/demand_letters/:letter_id/acknowledge", h.DemandLetter.Acknowledge)
				admin.POST("/demand_letters/:letter_id/settle", h.DemandLetter.Settle)
				admin.POST("/demand_letters/:letter_id/escalate", h.DemandLetter.Escalate)

				// Audit logs
				admin.GET("/audits", h.Audit.Index)
			}

			// Operator + admin routes
			protected.GET("/tenants", h.Tenant.Index)
			protected.GET("/tenants/:tenant_id", h.Tenant.Show)
			protected.GET("/tenants/:tenant_id/rent_charge", h.Tenant.RentCharge)
			protected.GET("/tenants/:tenant_id/outstanding", h.Tenant.Outstanding)
			protected.GET("/tenants/:tenant_id/payment_reports", h.Payment.ByTenant)

			protected.GET("/properties", h.Property.Index)
			protected.GET("/properties/:property_id", h.Property.Show)
			protected.GET("/properties/:property_id/units", h.Property.Units)

			// Utility bills
			protected.GET("/bills", h.Bill.Index)
			protected.GET("/bills/:bill_id", h.Bill.Show)
			protected.POST("/bills", h.Bill.Create)
			protected.POST("/bills/:bill_id/pay", h.Bill.Pay)
			protected.POST("/bills/:bill_id/invoice", h.Bill.GenerateInvoice)

			// Invoices
			protected.GET("/invoices", h.Invoice.Index)
			protected.GET("/invoices/:invoice_id", h.Invoice.Show)
			protected.POST("/invoices/generate", h.Invoice.GenerateRent)
			protected.POST("/invoices/:invoice_id/pay", h.Invoice.Pay)
			protected.GET("/bill_invoices/:bill_invoice_id", h.Invoice.ShowBillInvoice)
			protected.POST("/bill_invoices/:bill_invoice_id/pay", h.Invoice.PayBillInvoice)

			// Payment allocation and reports
			protected.POST("/payments", h.Payment.Allocate)
			protected.GET("/payment_reports", h.Payment.Index)
			protected.GET("/payment_reports/:report_id", h.Payment.Show)
			protected.POST("/payment_reports/:report_id/arrears_invoice", h.Invoice.GenerateArrears)

			// Arrears and income views
			protected.GET("/arrears", h.Arrears.Index)
			protected.GET("/arrears/income", h.Arrears.Income)

			// Demand letters (read)
			protected.GET("/demand_letters", h.DemandLetter.Index)
			protected.GET("/demand_letters/:letter_id", h.DemandLetter.Show)

			// Notifications
			// Static route first so "read_all" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/read_all", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/read", h.Notification.MarkAsRead)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}

			// Worker status
			protected.GET("/jobs/status", h.Job.Status)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, repos *repository.Repositories, svcs *services.Services) {
	// Daily overdue reminder emails for active tenants with overdue documents
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending overdue reminder emails...")

		tenants, err := repos.Tenant.FindDueForOverdueReminder(ctx)
		if err != nil {
			return err
		}

		var remindedIDs []uint
		for i := range tenants {
			tenant := &tenants[i]

			overdue, err := svcs.Arrears.OverdueItems(ctx, tenant.ID)
			if err != nil {
				logger.Error("Error loading overdue items", "tenant_id", tenant.ID, "error", err)
				continue
			}
			if len(overdue) == 0 {
				continue
			}

			if err := svcs.Email.SendOverdueReminder(ctx, tenant, overdue); err != nil {
				logger.Error("Error sending overdue reminder", "tenant_id", tenant.ID, "error", err)
				continue
			}
			remindedIDs = append(remindedIDs, tenant.ID)
		}

		if err := repos.Tenant.MarkOverdueReminderSent(ctx, remindedIDs); err != nil {
			logger.Error("Error marking reminders sent", "error", err)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
