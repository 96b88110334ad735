package handlers

import (
	"errors"
	"net/http"

	bookingRepo "bookable/database/repository/booking"
	"bookable/middleware"
	"bookable/models"
	"bookable/services/reservation"
	"bookable/services/schedule"
	"bookable/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the reservation endpoints.
type BookingHandler struct {
	Reservations reservation.ReservationService
	Bookings     bookingRepo.BookingRepository
}

func NewBookingHandler(svc reservation.ReservationService, repo bookingRepo.BookingRepository) *BookingHandler {
	return &BookingHandler{Reservations: svc, Bookings: repo}
}

// ReserveHandler creates a pending booking for the calling user.
func (h *BookingHandler) ReserveHandler(c *gin.Context) {
	requesterID, _, requesterTZ := middleware.Principal(c)

	var req models.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := reservation.WithPrincipalTimeZone(c.Request.Context(), requesterTZ)
	booking, err := h.Reservations.Reserve(ctx, requesterID, req)
	if err != nil {
		writeReservationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// UpdateBookingStatusHandler applies a booking state transition on
// behalf of the calling principal.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	actorID, actorRole, _ := middleware.Principal(c)
	bookingID := c.Param("id")

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	booking, err := h.Reservations.UpdateStatus(c.Request.Context(), bookingID, actorID, actorRole, req.Status)
	if err != nil {
		writeReservationError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBookingHandler deletes the calling user's pending booking and
// frees its slot.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	requesterID, _, _ := middleware.Principal(c)
	bookingID := c.Param("id")

	if err := h.Reservations.CancelOrDelete(c.Request.Context(), bookingID, requesterID); err != nil {
		writeReservationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// ListMyBookingsHandler returns the calling user's bookings with times
// formatted into their own timezone.
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	requesterID, _, requesterTZ := middleware.Principal(c)

	bookings, err := h.Bookings.ListByUser(c.Request.Context(), requesterID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch bookings", err.Error())
		return
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := models.BookingView{Booking: b}
		if startLocal, err := schedule.FormatInstant(b.Start, requesterTZ); err == nil {
			view.StartLocal = startLocal
		}
		if endLocal, err := schedule.FormatInstant(b.End, requesterTZ); err == nil {
			view.EndLocal = endLocal
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

func writeReservationError(c *gin.Context, err error) {
	var (
		valErr   *reservation.ValidationError
		pastErr  *reservation.PastTimeError
		dblErr   *reservation.DoubleBookingError
		slotErr  *reservation.SlotUnavailableError
		nfErr    *reservation.NotFoundError
		authErr  *reservation.AuthorizationError
		transErr *reservation.InvalidTransitionError
	)
	switch {
	case errors.As(err, &valErr), errors.As(err, &pastErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
	case errors.As(err, &dblErr), errors.As(err, &slotErr):
		utils.JSONError(c, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &nfErr):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &authErr):
		utils.JSONError(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.As(err, &transErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid transition", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
