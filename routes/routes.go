package routes

import (
	"net/http"
	"time"

	"bookable/handlers"
	"bookable/middleware"
	"bookable/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup/signin endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
	}
}

// RegisterProviderRoutes registers availability management endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		// Published availability is readable by any authenticated principal.
		api.GET("/:id/availability", middleware.JWTAuthMiddleware(hb.UserRepo), hb.Availability.GetAvailabilityHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.UserRepo), middleware.RequireRole(models.RoleProvider))
		protected.POST("/availability", hb.Availability.SetAvailabilityHandler)
		protected.DELETE("/availability/:date", hb.Availability.DeleteAvailabilityHandler)
		protected.GET("/dashboard", hb.Availability.ProviderDashboardHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the reservation engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.POST("", middleware.RequireRole(models.RoleUser), hb.Booking.ReserveHandler)
		api.GET("", middleware.RequireRole(models.RoleUser), hb.Booking.ListMyBookingsHandler)
		api.DELETE("/:id", middleware.RequireRole(models.RoleUser), hb.Booking.CancelBookingHandler)
		api.PUT("/:id/status", hb.Booking.UpdateBookingStatusHandler)
	}
}

// RegisterServiceRoutes sets up the service catalog endpoints.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.GET("", hb.Services.ListServicesHandler)
		api.POST("", middleware.RequireRole(models.RoleAdmin), hb.Services.CreateServiceHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo), middleware.RequireRole(models.RoleAdmin))
	{
		api.GET("/bookings", hb.Admin.ListBookingsHandler)
		api.GET("/providers", hb.Admin.ListProvidersHandler)
		api.PUT("/providers/:id/approve", hb.Admin.ApproveProviderHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterServiceRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
