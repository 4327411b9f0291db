// controllers/search_controller.go
package controllers

import (
	"net/http"

	"unihaven-backend/services"
	"unihaven-backend/utils"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	Svc *services.SearchService
}

func NewSearchController(svc *services.SearchService) *SearchController {
	return &SearchController{Svc: svc}
}

// Search handles GET /api/accommodations/search. All filters are optional
// query parameters; malformed ones come back together in one 400.
func (sc *SearchController) Search(c *gin.Context) {
	params := services.SearchParams{
		Type:              c.Query("type"),
		AvailabilityStart: c.Query("availability_start"),
		AvailabilityEnd:   c.Query("availability_end"),
		MinBeds:           c.Query("min_beds"),
		MinBedrooms:       c.Query("min_bedrooms"),
		MaxPrice:          c.Query("max_price"),
		CampusID:          c.Query("campus"),
		IsReserved:        c.Query("is_reserved"),
	}

	results, err := sc.Svc.Search(params)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, results)
}
