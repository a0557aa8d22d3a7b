package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bnb-backend/config"
	"bnb-backend/controllers"
	"bnb-backend/jobs"
	"bnb-backend/logger"
	"bnb-backend/routes"
	"bnb-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logger.Info(".env not found, continuing with environment variables")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	if err := config.ConnectDatabase(); err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	db := config.DB
	logger.Info("database connection established, migrations applied")

	mailer := services.NewSMTPMailerFromEnv()
	notifier := services.NewNotifier(mailer, os.Getenv("ADMIN_EMAIL"))

	listingService := services.NewListingService(db)
	bookingService := services.NewBookingService(db, notifier)
	userService := services.NewUserService(db)

	listingController := controllers.NewListingController(listingService)
	bookingController := controllers.NewBookingController(bookingService)
	authController := controllers.NewAuthController(userService)
	adminController := controllers.NewAdminController(listingService, bookingService)

	scheduler := jobs.NewScheduler(jobs.NewJobRunner(db))
	scheduler.Start()

	router := routes.SetupRouter(listingController, bookingController, authController, adminController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	scheduler.Stop()
	notifier.Close()
	logger.Info("server stopped")
}
