package handlers

import (
	"errors"
	"net/http"

	"bookable/middleware"
	"bookable/models"
	"bookable/services/availability"
	"bookable/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes provider availability endpoints.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// SetAvailabilityHandler publishes (or regenerates) the calling
// provider's slots for one date.
func (h *AvailabilityHandler) SetAvailabilityHandler(c *gin.Context) {
	providerID, _, _ := middleware.Principal(c)

	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	day, err := h.Service.SetAvailability(c.Request.Context(), providerID, req)
	if err != nil {
		writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// GetAvailabilityHandler returns a provider's day converted into the
// viewer's timezone.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	providerID := c.Param("id")
	date := c.Query("date")
	viewerTZ := c.Query("timeZone")
	if viewerTZ == "" {
		_, _, viewerTZ = middleware.Principal(c)
	}

	view, err := h.Service.GetAvailability(c.Request.Context(), providerID, date, viewerTZ)
	if err != nil {
		writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteAvailabilityHandler removes the calling provider's day.
func (h *AvailabilityHandler) DeleteAvailabilityHandler(c *gin.Context) {
	providerID, _, _ := middleware.Principal(c)
	date := c.Param("date")

	if err := h.Service.DeleteAvailability(c.Request.Context(), providerID, date); err != nil {
		writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability deleted"})
}

// ProviderDashboardHandler returns upcoming bookings plus the coming
// week's availability for the calling provider.
func (h *AvailabilityHandler) ProviderDashboardHandler(c *gin.Context) {
	providerID, _, _ := middleware.Principal(c)

	dash, err := h.Service.ProviderDashboard(c.Request.Context(), providerID)
	if err != nil {
		writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func writeAvailabilityError(c *gin.Context, err error) {
	var (
		valErr    *availability.ValidationError
		nfErr     *availability.NotFoundError
		lockErr   *availability.DayLockedError
		bookedErr *availability.BookedSlotsError
	)
	switch {
	case errors.As(err, &valErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
	case errors.As(err, &nfErr):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &lockErr), errors.As(err, &bookedErr):
		utils.JSONError(c, http.StatusConflict, "conflict", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
