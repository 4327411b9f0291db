// controllers/accommodation_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"unihaven-backend/services"
	"unihaven-backend/utils"

	"github.com/gin-gonic/gin"
)

type AccommodationController struct {
	Svc *services.AccommodationService
}

func NewAccommodationController(svc *services.AccommodationService) *AccommodationController {
	return &AccommodationController{Svc: svc}
}

type createAccommodationRequest struct {
	SpecialistID uint `json:"specialist_id" binding:"required"`
	services.CreateAccommodationInput
}

type createOfferingRequest struct {
	AccommodationID uint `json:"accommodation_id" binding:"required"`
	CampusID        uint `json:"campus_id" binding:"required"`
	SpecialistID    uint `json:"specialist_id" binding:"required"`
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func (ac *AccommodationController) CreateAccommodation(c *gin.Context) {
	var req createAccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	acc, err := ac.Svc.CreateAccommodation(req.SpecialistID, req.CreateAccommodationInput)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, acc)
}

func (ac *AccommodationController) UpdateAccommodation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.CreateAccommodationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	acc, err := ac.Svc.UpdateAccommodation(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, acc)
}

func (ac *AccommodationController) DeleteAccommodation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Svc.DeleteAccommodation(id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

func (ac *AccommodationController) GetAccommodation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	acc, err := ac.Svc.GetAccommodation(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, acc)
}

func (ac *AccommodationController) ListAccommodations(c *gin.Context) {
	list, err := ac.Svc.ListAccommodations()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ac *AccommodationController) CreateOffering(c *gin.Context) {
	var req createOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	offering, err := ac.Svc.CreateOffering(req.AccommodationID, req.CampusID, req.SpecialistID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, offering)
}
