package cron

import (
	"context"
	"time"

	availabilityRepo "bookable/database/repository/availability"
	bookingRepo "bookable/database/repository/booking"
	"bookable/utils"

	"go.uber.org/zap"
)

// DefaultStaleThreshold is how long an advisory day lock may sit before
// it is presumed abandoned.
const DefaultStaleThreshold = 5 * time.Minute

// Clock abstracts time so tests can drive sweeps deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// StaleLockReclaimer clears day-level advisory locks abandoned by
// crashed or stalled writers, and releases slot claims whose booking
// record never materialized. Sweep errors are logged and swallowed;
// the next tick retries.
type StaleLockReclaimer struct {
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Threshold    time.Duration
	Clock        Clock
}

// NewStaleLockReclaimer constructs a reclaimer with the default
// threshold and wall clock.
func NewStaleLockReclaimer(avail availabilityRepo.AvailabilityRepository, bookings bookingRepo.BookingRepository) *StaleLockReclaimer {
	return &StaleLockReclaimer{
		Availability: avail,
		Bookings:     bookings,
		Threshold:    DefaultStaleThreshold,
		Clock:        SystemClock{},
	}
}

func (r *StaleLockReclaimer) threshold() time.Duration {
	if r.Threshold > 0 {
		return r.Threshold
	}
	return DefaultStaleThreshold
}

func (r *StaleLockReclaimer) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now()
	}
	return time.Now()
}

// Sweep clears every advisory lock older than the threshold and
// returns the number cleared. Idempotent; an empty result set is not
// an error.
func (r *StaleLockReclaimer) Sweep(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.threshold())
	cleared, err := r.Availability.ClearStaleLocks(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if cleared > 0 {
		utils.GetLogger().Info("cleared stale availability locks", zap.Int64("count", cleared))
	}
	return cleared, nil
}

// ReconcileOrphanedClaims covers the non-transactional claim-then-create
// window: a crash between the slot claim and the booking insert leaves a
// slot booked with no backing record. Booked slots on stale-locked days
// are checked against pending/confirmed bookings and the unmatched ones
// released. Only days whose lock has outlived the threshold are touched;
// a fresh lock may sit next to claims whose inserts are still in flight.
func (r *StaleLockReclaimer) ReconcileOrphanedClaims(ctx context.Context) (int, error) {
	days, err := r.Availability.LockedDays(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := r.now().Add(-r.threshold())

	released := 0
	for _, day := range days {
		if day.LockedAt == nil || day.LockedAt.After(cutoff) || len(day.Slots) == 0 {
			continue
		}
		// A day keyed to one UTC date can hold slots spilling past
		// midnight when the provider's zone trails UTC, so the booking
		// window comes from the slot span, not the calendar date.
		from, to := day.Slots[0].Start, day.Slots[0].End
		for _, slot := range day.Slots[1:] {
			if slot.Start.Before(from) {
				from = slot.Start
			}
			if slot.End.After(to) {
				to = slot.End
			}
		}
		active, err := r.Bookings.ActiveInRange(ctx, day.ProviderID, from, to)
		if err != nil {
			return released, err
		}

		held := make(map[[2]int64]bool, len(active))
		for _, b := range active {
			held[[2]int64{b.Start.Unix(), b.End.Unix()}] = true
		}

		for _, slot := range day.Slots {
			if !slot.IsBooked || held[[2]int64{slot.Start.Unix(), slot.End.Unix()}] {
				continue
			}
			if err := r.Availability.ReleaseSlot(ctx, day.ProviderID, slot.Start, slot.End); err != nil {
				return released, err
			}
			released++
		}
	}
	if released > 0 {
		utils.GetLogger().Info("released orphaned slot claims", zap.Int("count", released))
	}
	return released, nil
}

// Run sweeps immediately and then on every tick until ctx is done.
// Stopping it only delays lock recovery, never corrupts state.
func (r *StaleLockReclaimer) Run(ctx context.Context) {
	logger := utils.GetLogger()
	logger.Info("stale lock reclaimer started", zap.Duration("interval", r.threshold()))

	r.tick(ctx)
	ticker := time.NewTicker(r.threshold())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stale lock reclaimer stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *StaleLockReclaimer) tick(ctx context.Context) {
	logger := utils.GetLogger()
	if _, err := r.ReconcileOrphanedClaims(ctx); err != nil {
		logger.Error("orphaned claim reconciliation failed", zap.Error(err))
	}
	if _, err := r.Sweep(ctx); err != nil {
		logger.Error("stale lock sweep failed", zap.Error(err))
	}
}
