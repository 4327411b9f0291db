package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"unihaven-backend/config"
	"unihaven-backend/controllers"
	"unihaven-backend/routes"
	"unihaven-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	// Connect database (config.ConnectDatabase should set config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established and migrations applied")

	// Initialize services
	geocoder := services.NewALSGeocoder()
	accommodationService := services.NewAccommodationService(db, geocoder)
	reservationService := services.NewReservationService(db, accommodationService)
	ratingService := services.NewRatingService(db, accommodationService, requireCompletedStay())
	searchService := services.NewSearchService(db, geocoder)
	accountService := services.NewAccountService(db)

	// Initialize controllers
	accommodationController := controllers.NewAccommodationController(accommodationService)
	reservationController := controllers.NewReservationController(reservationService)
	ratingController := controllers.NewRatingController(ratingService)
	searchController := controllers.NewSearchController(searchService)
	accountController := controllers.NewAccountController(accountService)

	// Build router
	router := routes.SetupRouter(
		accommodationController,
		reservationController,
		ratingController,
		searchController,
		accountController,
	)

	// Background sweep: cancel reservations stuck in pending
	sweepStop := make(chan struct{})
	go runExpirySweep(reservationService, sweepStop)

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
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	close(sweepStop)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

func requireCompletedStay() bool {
	v := os.Getenv("RATING_REQUIRE_COMPLETED")
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warning: invalid RATING_REQUIRE_COMPLETED=%q, defaulting to true", v)
		return true
	}
	return b
}

// runExpirySweep periodically cancels stale pending reservations. Interval
// comes from PENDING_SWEEP_MINUTES (default 60).
func runExpirySweep(svc *services.ReservationService, stop <-chan struct{}) {
	minutes := 60
	if v := os.Getenv("PENDING_SWEEP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minutes = n
		}
	}

	ticker := time.NewTicker(time.Duration(minutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			count, err := svc.ExpirePending(time.Now().UTC())
			if err != nil {
				log.Printf("warning: pending reservation sweep failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("Expired %d pending reservations", count)
			}
		}
	}
}
