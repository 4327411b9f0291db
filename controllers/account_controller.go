// controllers/account_controller.go
package controllers

import (
	"net/http"

	"unihaven-backend/services"
	"unihaven-backend/utils"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	Svc *services.AccountService
}

func NewAccountController(svc *services.AccountService) *AccountController {
	return &AccountController{Svc: svc}
}

func (ac *AccountController) RegisterStudent(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	student, err := ac.Svc.RegisterStudent(req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, student)
}

func (ac *AccountController) RegisterSpecialist(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	specialist, err := ac.Svc.RegisterSpecialist(req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, specialist)
}
