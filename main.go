package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookable/config"
	"bookable/cron"
	"bookable/database"
	availabilityRepoPkg "bookable/database/repository/availability"
	bookingRepoPkg "bookable/database/repository/booking"
	serviceRepoPkg "bookable/database/repository/service"
	userRepoPkg "bookable/database/repository/user"
	"bookable/handlers"
	"bookable/middleware"
	"bookable/routes"
	"bookable/services/account"
	availabilitySvc "bookable/services/availability"
	"bookable/services/reservation"
	"bookable/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	availRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	usrRepo := userRepoPkg.NewMongoUserRepo()
	svcRepo := serviceRepoPkg.NewMongoServiceRepo()

	for _, ensure := range []func() error{
		availRepo.EnsureIndexes,
		bookRepo.EnsureIndexes,
		usrRepo.EnsureIndexes,
		svcRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// services.
	accountService := &account.DefaultAccountService{Repo: usrRepo}
	availabilityService := &availabilitySvc.DefaultAvailabilityService{
		Repo:      availRepo,
		Bookings:  bookRepo,
		Providers: usrRepo,
		Cache:     utils.GetCacheClient(),
	}
	reservationService := &reservation.DefaultReservationService{
		Availability: availRepo,
		Bookings:     bookRepo,
		Providers:    usrRepo,
		Catalog:      svcRepo,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:     usrRepo,
		Auth:         handlers.NewAuthHandler(accountService),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Booking:      handlers.NewBookingHandler(reservationService, bookRepo),
		Admin:        handlers.NewAdminHandler(usrRepo, bookRepo),
		Services:     handlers.NewServiceHandler(svcRepo),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background reclaimer for abandoned day locks and orphaned claims.
	reclaimer := cron.NewStaleLockReclaimer(availRepo, bookRepo)
	if mins := config.AppConfig.StaleLockThresholdMin; mins > 0 {
		reclaimer.Threshold = time.Duration(mins) * time.Minute
	}
	reclaimerCtx, stopReclaimer := context.WithCancel(context.Background())
	defer stopReclaimer()
	go reclaimer.Run(reclaimerCtx)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
