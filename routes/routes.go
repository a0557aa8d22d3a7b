package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"bnb-backend/controllers"
	"bnb-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func sessionStore() sessions.Store {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-session-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 14,
		HttpOnly: true,
	})
	return store
}

func SetupRouter(
	lc *controllers.ListingController,
	bc *controllers.BookingController,
	auc *controllers.AuthController,
	adc *controllers.AdminController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// The cookie session carries the per-visitor ranking seed.
	r.Use(sessions.Sessions("bnb_session", sessionStore()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		listings := api.Group("/listings")
		{
			listings.GET("", lc.List)
			listings.GET("/mine", middleware.RequireAuth(), lc.Mine)
			listings.GET("/:slug", middleware.OptionalAuth(), lc.Detail)
			listings.POST("", middleware.RequireAuth(), lc.Submit)
			listings.PUT("/:id", middleware.RequireAuth(), lc.Update)
			listings.DELETE("/:id", middleware.RequireAuth(), lc.Delete)

			listings.POST("/:id/bookings", bc.Create)
		}

		// Location landing pages share the home handler.
		api.GET("/location/:location", lc.List)

		api.GET("/locations", lc.Locations)
		api.GET("/property-types", lc.PropertyTypes)

		bookings := api.Group("/bookings")
		{
			bookings.GET("/:id", bc.Confirmation)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/register", auc.Register)
			auth.POST("/login", auc.Login)
			auth.GET("/profile", middleware.RequireAuth(), auc.Profile)
			auth.PUT("/profile", middleware.RequireAuth(), auc.UpdateProfile)
			auth.DELETE("/account", middleware.RequireAuth(), auc.DeleteAccount)
		}

		admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/listings", adc.Listings)
			admin.POST("/listings/approve", adc.ApproveListings)
			admin.POST("/listings/unapprove", adc.UnapproveListings)
			admin.POST("/listings/feature", adc.FeatureListings)
			admin.POST("/listings/unfeature", adc.UnfeatureListings)

			admin.GET("/bookings", adc.Bookings)
			admin.PATCH("/bookings/:id/status", adc.UpdateBookingStatus)
		}
	}

	return r
}
