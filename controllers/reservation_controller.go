// controllers/reservation_controller.go
package controllers

import (
	"net/http"

	"unihaven-backend/services"
	"unihaven-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Svc *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Svc: svc}
}

type createReservationRequest struct {
	AccommodationID uint `json:"accommodation_id" binding:"required"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateReservation handles POST /api/students/:id/reservations.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	r, err := rc.Svc.CreateReservation(studentID, req.AccommodationID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, r)
}

// ListStudentReservations handles GET /api/students/:id/reservations.
func (rc *ReservationController) ListStudentReservations(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := rc.Svc.ListByStudent(studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// CancelReservation handles POST /api/students/:id/reservations/:rid/cancel.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	reservationID, ok := paramID(c, "rid")
	if !ok {
		return
	}

	r, err := rc.Svc.CancelReservation(studentID, reservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

// SetStatus handles PATCH /api/reservations/:id/status (specialist path).
func (rc *ReservationController) SetStatus(c *gin.Context) {
	reservationID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	r, err := rc.Svc.SetStatus(reservationID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

// ListActive handles GET /api/reservations/active.
func (rc *ReservationController) ListActive(c *gin.Context) {
	list, err := rc.Svc.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
