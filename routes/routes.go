package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"unihaven-backend/controllers"
	"unihaven-backend/middleware"
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

func SetupRouter(
	ac *controllers.AccommodationController,
	rc *controllers.ReservationController,
	rtc *controllers.RatingController,
	sc *controllers.SearchController,
	acc *controllers.AccountController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		accommodations := api.Group("/accommodations")
		{
			// /search must stay ahead of /:id
			accommodations.GET("/search", sc.Search)
			accommodations.GET("", ac.ListAccommodations)
			accommodations.POST("", ac.CreateAccommodation)
			accommodations.GET("/:id", ac.GetAccommodation)
			accommodations.PUT("/:id", ac.UpdateAccommodation)
			accommodations.DELETE("/:id", ac.DeleteAccommodation)
			accommodations.GET("/:id/ratings", rtc.ListRatings)
		}

		offerings := api.Group("/offerings")
		{
			offerings.POST("", ac.CreateOffering)
		}

		students := api.Group("/students")
		{
			students.POST("", acc.RegisterStudent)
			students.GET("/:id/reservations", rc.ListStudentReservations)
			students.POST("/:id/reservations", rc.CreateReservation)
			students.POST("/:id/reservations/:rid/cancel", rc.CancelReservation)
			students.POST("/:id/ratings", rtc.SubmitRating)
		}

		specialists := api.Group("/specialists")
		{
			specialists.POST("", acc.RegisterSpecialist)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("/active", rc.ListActive)
			reservations.PATCH("/:id/status", rc.SetStatus)
		}
	}

	return r
}
