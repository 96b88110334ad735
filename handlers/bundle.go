package handlers

import (
	userRepo "bookable/database/repository/user"
)

// HandlerBundle collects every handler the router registers, plus the
// repositories middleware needs.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	Auth         *AuthHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Admin        *AdminHandler
	Services     *ServiceHandler
}
