package handlers

import (
	"net/http"

	serviceRepo "bookable/database/repository/service"
	"bookable/models"
	"bookable/utils"

	"github.com/gin-gonic/gin"
)

// ServiceHandler exposes the service catalog.
type ServiceHandler struct {
	Services serviceRepo.ServiceRepository
}

func NewServiceHandler(services serviceRepo.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{Services: services}
}

// ListServicesHandler returns the catalog.
func (h *ServiceHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Services.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch services", err.Error())
		return
	}
	c.JSON(http.StatusOK, services)
}

// CreateServiceHandler adds a catalog entry (admin only).
func (h *ServiceHandler) CreateServiceHandler(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if svc.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "name is required")
		return
	}

	if err := h.Services.Create(c.Request.Context(), &svc); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create service", err.Error())
		return
	}
	c.JSON(http.StatusCreated, svc)
}
