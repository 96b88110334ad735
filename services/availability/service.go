package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookable/config"
	availabilityRepo "bookable/database/repository/availability"
	userRepo "bookable/database/repository/user"
	"bookable/models"
	"bookable/services/schedule"
	"bookable/utils"

	"go.uber.org/zap"
)

const dayCacheTTL = 30 * time.Second

// SetAvailability regenerates a provider's slot grid for one date. The
// working window is interpreted in the provider's own timezone. The day
// advisory lock serializes concurrent regenerations; booked slots from
// the previous grid are carried over when their intervals survive, and
// the whole rewrite is refused when any booked slot would be erased.
func (s *DefaultAvailabilityService) SetAvailability(ctx context.Context, providerID string, req models.SetAvailabilityRequest) (*models.AvailabilityDay, error) {
	provider, err := s.Providers.GetProviderProfile(ctx, providerID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, &NotFoundError{Entity: "provider"}
		}
		return nil, err
	}
	if !schedule.ValidateTimeZone(provider.TimeZone) {
		return nil, &ValidationError{Message: fmt.Sprintf("provider has an invalid timezone %q", provider.TimeZone)}
	}

	windowStart, err := schedule.ToInstant(req.Date, req.StartTime, provider.TimeZone)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	windowEnd, err := schedule.ToInstant(req.Date, req.EndTime, provider.TimeZone)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	dayStart, err := schedule.ToInstant(req.Date, "", provider.TimeZone)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if dayStart.Add(24 * time.Hour).Before(s.now()) {
		return nil, &ValidationError{Message: "cannot set availability for past dates"}
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = config.AppConfig.DefaultSlotMinutes
	}
	slots, err := schedule.Generate(windowStart, windowEnd, duration)
	if err != nil {
		var winErr *schedule.InvalidWindowError
		if errors.As(err, &winErr) {
			return nil, &ValidationError{Message: winErr.Error()}
		}
		return nil, err
	}

	dateUTC := schedule.UTCDate(windowStart)

	// Serialize against other bulk rewrites of the same day. A missing
	// day means this is the first publish and needs no lock.
	locked := false
	switch err := s.Repo.MarkLocked(ctx, providerID, dateUTC, s.now()); {
	case err == nil:
		locked = true
	case errors.Is(err, availabilityRepo.ErrNotFound):
	case errors.Is(err, availabilityRepo.ErrDayLocked):
		return nil, &DayLockedError{Date: dateUTC}
	default:
		return nil, err
	}

	merged, err := s.mergeBookedSlots(ctx, providerID, dateUTC, slots)
	if err != nil {
		if locked {
			if clrErr := s.Repo.ClearLock(ctx, providerID, dateUTC); clrErr != nil {
				utils.GetLogger().Error("failed to clear day lock after rejected rewrite",
					zap.String("providerId", providerID),
					zap.String("date", dateUTC),
					zap.Error(clrErr))
			}
		}
		return nil, err
	}

	day := &models.AvailabilityDay{
		ProviderID: providerID,
		Date:       dateUTC,
		Slots:      merged,
		TimeZone:   provider.TimeZone,
	}

	// UpsertDay clears lockedAt, releasing the advisory lock.
	out, err := s.Repo.UpsertDay(ctx, day)
	if err != nil {
		if locked {
			_ = s.Repo.ClearLock(ctx, providerID, dateUTC)
		}
		return nil, err
	}

	s.invalidateDay(ctx, providerID, dateUTC)
	utils.GetLogger().Info("availability published",
		zap.String("providerId", providerID),
		zap.String("date", dateUTC),
		zap.Int("slots", len(out.Slots)))
	return out, nil
}

// mergeBookedSlots carries isBooked over from the previous grid. Every
// booked old slot must survive as an identical (start, end) interval in
// the new grid, otherwise the rewrite is rejected.
func (s *DefaultAvailabilityService) mergeBookedSlots(ctx context.Context, providerID, dateUTC string, slots []models.Slot) ([]models.Slot, error) {
	booked, err := s.Repo.BookedSlots(ctx, providerID, dateUTC)
	if err != nil {
		return nil, err
	}
	if len(booked) == 0 {
		return slots, nil
	}

	index := make(map[[2]int64]int, len(slots))
	for i, slot := range slots {
		index[[2]int64{slot.Start.Unix(), slot.End.Unix()}] = i
	}

	var orphaned int
	for _, old := range booked {
		if i, ok := index[[2]int64{old.Start.Unix(), old.End.Unix()}]; ok {
			slots[i].IsBooked = true
		} else {
			orphaned++
		}
	}
	if orphaned > 0 {
		return nil, &BookedSlotsError{Count: orphaned}
	}
	return slots, nil
}

// GetAvailability returns a provider's published day converted into
// the viewer's timezone. A missing day comes back as an empty view, a
// bad zone as a validation error. Unapproved providers are not
// queryable; their days stay hidden until an admin approves them.
// Reads go through a short-lived cache.
func (s *DefaultAvailabilityService) GetAvailability(ctx context.Context, providerID, date, viewerTZ string) (*models.AvailabilityDayView, error) {
	if viewerTZ == "" {
		viewerTZ = "UTC"
	}
	if !schedule.ValidateTimeZone(viewerTZ) {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid timezone %q", viewerTZ)}
	}
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid date %q", date)}
	}

	provider, err := s.Providers.GetProviderProfile(ctx, providerID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, &NotFoundError{Entity: "provider"}
		}
		return nil, err
	}
	if !provider.IsApproved {
		return nil, &NotFoundError{Entity: "provider"}
	}

	return s.dayView(ctx, providerID, date, viewerTZ)
}

// dayView converts one stored day into a viewer's zone without the
// approval gate; the provider's own dashboard goes through here.
func (s *DefaultAvailabilityService) dayView(ctx context.Context, providerID, date, viewerTZ string) (*models.AvailabilityDayView, error) {
	day, err := s.loadDay(ctx, providerID, date)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return &models.AvailabilityDayView{
				ProviderID: providerID,
				Date:       date,
				TimeZone:   viewerTZ,
				Slots:      []models.SlotView{},
			}, nil
		}
		return nil, err
	}

	view := &models.AvailabilityDayView{
		ProviderID: day.ProviderID,
		Date:       day.Date,
		TimeZone:   viewerTZ,
		Slots:      make([]models.SlotView, 0, len(day.Slots)),
	}
	for _, slot := range day.Slots {
		startLocal, err := schedule.FormatInstant(slot.Start, viewerTZ)
		if err != nil {
			return nil, err
		}
		endLocal, err := schedule.FormatInstant(slot.End, viewerTZ)
		if err != nil {
			return nil, err
		}
		view.Slots = append(view.Slots, models.SlotView{
			Start:    startLocal,
			End:      endLocal,
			IsBooked: slot.IsBooked,
		})
	}
	return view, nil
}

// DeleteAvailability removes a provider's day outright.
func (s *DefaultAvailabilityService) DeleteAvailability(ctx context.Context, providerID, date string) error {
	if err := s.Repo.DeleteDay(ctx, providerID, date); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return &NotFoundError{Entity: "availability day"}
		}
		return err
	}
	s.invalidateDay(ctx, providerID, date)
	return nil
}

// ProviderDashboard returns upcoming bookings plus the next seven
// published days, formatted in the provider's own zone.
func (s *DefaultAvailabilityService) ProviderDashboard(ctx context.Context, providerID string) (*Dashboard, error) {
	provider, err := s.Providers.GetProviderProfile(ctx, providerID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, &NotFoundError{Entity: "provider"}
		}
		return nil, err
	}

	now := s.now()
	bookings, err := s.Bookings.ListByProviderFrom(ctx, providerID, now)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Bookings: make([]models.BookingView, 0, len(bookings)),
		Days:     make([]models.AvailabilityDayView, 0, 7),
	}
	for _, b := range bookings {
		startLocal, err := schedule.FormatInstant(b.Start, provider.TimeZone)
		if err != nil {
			return nil, err
		}
		endLocal, err := schedule.FormatInstant(b.End, provider.TimeZone)
		if err != nil {
			return nil, err
		}
		dash.Bookings = append(dash.Bookings, models.BookingView{
			Booking:    b,
			StartLocal: startLocal,
			EndLocal:   endLocal,
		})
	}

	for i := 0; i < 7; i++ {
		date := now.UTC().AddDate(0, 0, i).Format(schedule.DateLayout)
		view, err := s.dayView(ctx, providerID, date, provider.TimeZone)
		if err != nil {
			return nil, err
		}
		if len(view.Slots) > 0 {
			dash.Days = append(dash.Days, *view)
		}
	}
	return dash, nil
}

func dayCacheKey(providerID, date string) string {
	return "availability:" + providerID + ":" + date
}

// loadDay reads a day through the redis cache when one is wired.
func (s *DefaultAvailabilityService) loadDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	if s.Cache == nil {
		return s.Repo.GetDay(ctx, providerID, date)
	}

	key := dayCacheKey(providerID, date)
	if data, err := s.Cache.Get(ctx, key).Result(); err == nil {
		var day models.AvailabilityDay
		if err := json.Unmarshal([]byte(data), &day); err == nil {
			return &day, nil
		}
	}

	day, err := s.Repo.GetDay(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(day); err == nil {
		if err := s.Cache.Set(ctx, key, data, dayCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache availability day", zap.Error(err))
		}
	}
	return day, nil
}

func (s *DefaultAvailabilityService) invalidateDay(ctx context.Context, providerID, date string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, dayCacheKey(providerID, date)).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate availability cache",
			zap.String("providerId", providerID),
			zap.String("date", date),
			zap.Error(err))
	}
}
