package handlers

import (
	"errors"
	"net/http"

	bookingRepo "bookable/database/repository/booking"
	userRepo "bookable/database/repository/user"
	"bookable/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes administrative endpoints.
type AdminHandler struct {
	Users    userRepo.UserRepository
	Bookings bookingRepo.BookingRepository
}

func NewAdminHandler(users userRepo.UserRepository, bookings bookingRepo.BookingRepository) *AdminHandler {
	return &AdminHandler{Users: users, Bookings: bookings}
}

// ListBookingsHandler returns every booking in the system.
func (h *AdminHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.Bookings.ListAll(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListProvidersHandler returns providers, approved and not.
func (h *AdminHandler) ListProvidersHandler(c *gin.Context) {
	providers, err := h.Users.ListProviders(c.Request.Context(), false)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch providers", err.Error())
		return
	}
	c.JSON(http.StatusOK, providers)
}

// ApproveProviderHandler flips a provider's bookable flag.
func (h *AdminHandler) ApproveProviderHandler(c *gin.Context) {
	providerID := c.Param("id")

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Users.SetApproved(c.Request.Context(), providerID, req.Approved); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "provider not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update provider", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Provider approval updated"})
}
