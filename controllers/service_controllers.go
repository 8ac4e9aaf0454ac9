package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprimerie/print-shop-app/services"
	"github.com/imprimerie/print-shop-app/utils"
)

type ServiceController struct {
	Catalog *services.CatalogService
}

func NewServiceController(catalog *services.CatalogService) *ServiceController {
	return &ServiceController{Catalog: catalog}
}

// GetAllServices -> public catalog listing with filters
func (sc *ServiceController) GetAllServices(c *gin.Context) {
	filter := services.ServiceFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	list, total, err := sc.Catalog.ListServices(filter)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of services", gin.H{
		"data":       list,
		"pagination": services.NewPagination(filter.Page, filter.Limit, total),
	})
}

// GetServiceByID
func (sc *ServiceController) GetServiceByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	svc, err := sc.Catalog.GetService(uint(id))
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service detail", svc)
}

// CreateService -> admin
func (sc *ServiceController) CreateService(c *gin.Context) {
	var in services.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	svc, err := sc.Catalog.CreateService(in)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Service created: %s (%s)", svc.Name, svc.Category)
	utils.RespondJSON(c, http.StatusCreated, "Service created", svc)
}

// UpdateService -> admin
func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	var in services.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	svc, err := sc.Catalog.UpdateService(uint(id), in)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service updated", svc)
}

// ToggleService -> admin activates/deactivates
func (sc *ServiceController) ToggleService(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	svc, err := sc.Catalog.ToggleService(uint(id))
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service toggled", svc)
}

// DeleteService -> admin. Referenced services are deactivated instead of
// deleted; the 409 tells the admin which happened.
func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	if err := sc.Catalog.DeleteService(uint(id)); err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service deleted", gin.H{"service_id": id})
}
