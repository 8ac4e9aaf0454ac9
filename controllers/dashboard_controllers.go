package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprimerie/print-shop-app/services"
	"github.com/imprimerie/print-shop-app/utils"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.Dashboard.GetStats()
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard statistics", stats)
}

func (dc *DashboardController) GetMonthlyStats(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))

	stats, err := dc.Dashboard.GetMonthlyStats(months)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Monthly statistics", stats)
}

func (dc *DashboardController) GetTopServices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	top, err := dc.Dashboard.GetTopServices(limit)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Top services", top)
}
