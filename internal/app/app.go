package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"feedbackbox_backend/internal/config"
	"feedbackbox_backend/internal/handlers"
	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/middleware"
	"feedbackbox_backend/internal/models"
	"feedbackbox_backend/internal/pkg/email"
	"feedbackbox_backend/internal/repositories"
	"feedbackbox_backend/internal/routes"
	"feedbackbox_backend/internal/services"
	"feedbackbox_backend/internal/validator"
	"feedbackbox_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := openDatabase(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Feedback{},
		&models.SubscriptionPlan{},
	); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedPlans(gormDB); err != nil {
		logger.Fatal("Failed to seed subscription plans", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	worker := workers.NewSubscriptionWorker(gormDB)
	worker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// openDatabase picks the driver from the DSN: "mysql://" selects the
// MySQL driver (prefix stripped), anything else is treated as Postgres.
func openDatabase(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "mysql://") {
		return gorm.Open(mysql.Open(strings.TrimPrefix(dsn, "mysql://")), &gorm.Config{})
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	mailer := initializeMailer(cfg)
	serviceContainer := services.NewServiceContainer(gormDB, cfg, mailer)
	appHandlers := initializeHandlers(serviceContainer, cfg)
	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

// initializeMailer builds the SMTP sender, or nil when SMTP is not
// configured. Notifications are best-effort, so a missing mail setup
// is a warning, not a startup failure.
func initializeMailer(cfg *config.Config) email.Sender {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP not configured, feedback notifications disabled")
		return nil
	}

	mailer, err := email.NewSMTPSender(email.Config{
		SMTPHost:  cfg.Email.SMTPHost,
		SMTPPort:  cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Warn("Invalid SMTP config, feedback notifications disabled", "error", err)
		return nil
	}
	return mailer
}

func initializeHandlers(container *services.ServiceContainer, cfg *config.Config) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		WidgetHandler:    handlers.NewWidgetHandler(baseHandler, container.FeedbackService),
		AuthHandler:      handlers.NewAuthHandler(baseHandler, container.AuthService),
		ProjectHandler:   handlers.NewProjectHandler(baseHandler, container.ProjectService),
		FeedbackHandler:  handlers.NewFeedbackHandler(baseHandler, container.FeedbackService),
		AnalyticsHandler: handlers.NewAnalyticsHandler(baseHandler, container.AnalyticsService),
		BillingHandler:   handlers.NewBillingHandler(baseHandler, container.BillingService, cfg),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.DashboardCORS(cfg.Dashboard.BaseURL))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedPlans creates the free and pro tiers when missing. Existing rows
// are left alone so ceilings can be tuned without a deploy.
func seedPlans(db *gorm.DB) error {
	planRepo := repositories.NewPlanRepository(db)
	ctx := context.Background()

	plans := []struct {
		name  string
		tier  models.UserPlan
		price float64
		limit models.PlanLimits
	}{
		{
			name:  "Free",
			tier:  models.PlanFree,
			price: 0,
			limit: models.PlanLimits{
				FeedbackPerMonth: services.FreeMonthlyFeedbackLimit,
				Projects:         services.FreeProjectLimit,
			},
		},
		{
			name:  "Pro",
			tier:  models.PlanPro,
			price: 9,
			limit: models.PlanLimits{
				FeedbackPerMonth: services.ProMonthlyFeedbackLimit,
				Projects:         services.UnlimitedProjects,
			},
		},
	}

	for _, p := range plans {
		limitsJSON, err := json.Marshal(p.limit)
		if err != nil {
			return err
		}
		plan := &models.SubscriptionPlan{
			Name:     p.name,
			Tier:     p.tier,
			Price:    p.price,
			Currency: "USD",
			Limits:   datatypes.JSON(limitsJSON),
			IsActive: true,
		}
		if err := planRepo.EnsureSeeded(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}
