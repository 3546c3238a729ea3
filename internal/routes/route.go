package routes

import (
	"github.com/audiojones/admin-api/internal/container"
	"github.com/audiojones/admin-api/internal/handlers"
	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "admin-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Signup(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))
		v1.POST("/logout", handlers.Logout())

		// Provider webhooks authenticate by signature, not session
		v1.POST("/webhooks/whop", handlers.WhopWebhook(container.WebhookService, container.Config.WhopWebhookSecret))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Logger))

	protected.GET("/profile", func(c *gin.Context) {
		user, exist := c.Get("user")
		if !exist {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		enhancedClaims, ok := user.(*helpers.EnhancedClaims)
		if !ok {
			c.JSON(500, gin.H{"error": "Invalid user claims format"})
			return
		}

		c.JSON(200, gin.H{
			"status":       "OK",
			"user_id":      enhancedClaims.UserID,
			"email":        enhancedClaims.Email,
			"role":         enhancedClaims.Role,
			"tenant_id":    enhancedClaims.TenantID,
			"display_name": enhancedClaims.DisplayName,
			"is_admin":     enhancedClaims.IsAdmin(),
		})
	})

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/dashboard", handlers.DashboardStats(container.DashboardService))

		// Cross-tenant booking list for the admin overview
		admin.GET("/bookings", handlers.ListBookings(container.BookingService))

		admin.GET("/tenants", handlers.ListTenants(container.TenantService))
		tenant := admin.Group("/tenants/:tenantId")
		{
			tenant.GET("", handlers.GetTenant(container.TenantService))
			tenant.PATCH("", handlers.UpdateTenant(container.TenantService))

			tenant.GET("/services", handlers.ListServices(container.CatalogService))
			tenant.GET("/services/:serviceId", handlers.GetService(container.CatalogService))
			tenant.PATCH("/services/:serviceId", handlers.UpdateService(container.CatalogService))
			tenant.POST("/services/:serviceId/sync", handlers.SyncService(container.CatalogService))

			tenant.GET("/bookings", handlers.ListBookings(container.BookingService))
			tenant.GET("/bookings/:bookingId", handlers.GetBooking(container.BookingService))
			tenant.POST("/bookings/:bookingId/status", handlers.UpdateBookingStatus(container.BookingService))
		}
	}

	return r
}
