package container

import (
	"log/slog"

	"github.com/audiojones/admin-api/internal/config"
	"github.com/audiojones/admin-api/internal/models"
	"github.com/audiojones/admin-api/internal/services"
	"github.com/audiojones/admin-api/internal/whop"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-redis/redis/v8"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	RedisClient    *redis.Client
	Cloudinary     *cloudinary.Cloudinary

	UserService         *services.UserService
	TenantService       *services.TenantService
	CatalogService      *services.CatalogService
	BookingService      *services.BookingService
	DashboardService    *services.DashboardService
	WebhookService      *services.WebhookService
	EventService        *services.EventService
	NotificationService *services.NotificationService
	OutboxWorker        *services.OutboxWorker
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	redisClient *redis.Client,
	cld *cloudinary.Cloudinary,
	emailSender services.EmailSender,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, cfg.SupabaseURL, cfg.SupabaseAnonKey)
	mongoRepo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)

	whopClient := whop.NewClient(cfg.WhopAPIBaseURL, cfg.WhopAPIKey)

	userService := services.NewUserService(supa, mongoRepo)
	eventService := services.NewEventService(mongoRepo, cfg.AutomationWebhookURL, logger)
	notificationService := services.NewNotificationService(mongoRepo, emailSender, logger)
	bookingService := services.NewBookingService(mongoRepo, mongoRepo, mongoRepo, mongoRepo, notificationService, logger)
	tenantService := services.NewTenantService(mongoRepo, mongoRepo, cld, logger)
	catalogService := services.NewCatalogService(mongoRepo, mongoRepo, whopClient, logger)
	dashboardService := services.NewDashboardService(mongoRepo, mongoRepo, mongoRepo)
	webhookService := services.NewWebhookService(mongoRepo, mongoRepo, mongoRepo, mongoRepo, bookingService, redisClient, logger)
	outboxWorker := services.NewOutboxWorker(mongoRepo, eventService, notificationService, logger)

	return &Container{
		Config:              cfg,
		Logger:              logger,
		SupabaseClient:      supabaseClient,
		MongoDBClient:       mongoDBClient,
		RedisClient:         redisClient,
		Cloudinary:          cld,
		UserService:         userService,
		TenantService:       tenantService,
		CatalogService:      catalogService,
		BookingService:      bookingService,
		DashboardService:    dashboardService,
		WebhookService:      webhookService,
		EventService:        eventService,
		NotificationService: notificationService,
		OutboxWorker:        outboxWorker,
	}
}
