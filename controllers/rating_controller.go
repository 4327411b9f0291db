// controllers/rating_controller.go
package controllers

import (
	"net/http"

	"unihaven-backend/services"
	"unihaven-backend/utils"

	"github.com/gin-gonic/gin"
)

type RatingController struct {
	Svc *services.RatingService
}

func NewRatingController(svc *services.RatingService) *RatingController {
	return &RatingController{Svc: svc}
}

type submitRatingRequest struct {
	AccommodationID uint   `json:"accommodation_id" binding:"required"`
	Rating          *int   `json:"rating" binding:"required"`
	Comment         string `json:"comment"`
}

// SubmitRating handles POST /api/students/:id/ratings.
func (rc *RatingController) SubmitRating(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	summary, err := rc.Svc.SubmitRating(studentID, req.AccommodationID, *req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message":              "Rating updated successfully",
		"rating":               summary.Value,
		"accommodation_rating": gin.H{"average": summary.Average, "count": summary.Count},
	})
}

// ListRatings handles GET /api/accommodations/:id/ratings.
func (rc *RatingController) ListRatings(c *gin.Context) {
	accommodationID, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := rc.Svc.ListForAccommodation(accommodationID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
