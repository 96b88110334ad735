package availability

import (
	"context"
	"testing"
	"time"

	availabilityRepo "bookable/database/repository/availability"
	bookingRepo "bookable/database/repository/booking"
	userRepo "bookable/database/repository/user"
	"bookable/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dayKey struct{ provider, date string }

type fakeDayRepo struct {
	availabilityRepo.AvailabilityRepository
	days       map[dayKey]*models.AvailabilityDay
	lockErr    error
	locks      int
	lockClears int
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: make(map[dayKey]*models.AvailabilityDay)}
}

func (f *fakeDayRepo) UpsertDay(_ context.Context, day *models.AvailabilityDay) (*models.AvailabilityDay, error) {
	stored := *day
	stored.LockedAt = nil
	stored.UpdatedAt = time.Now().UTC()
	f.days[dayKey{day.ProviderID, day.Date}] = &stored
	out := stored
	return &out, nil
}

func (f *fakeDayRepo) GetDay(_ context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	day, ok := f.days[dayKey{providerID, date}]
	if !ok {
		return nil, availabilityRepo.ErrNotFound
	}
	out := *day
	return &out, nil
}

func (f *fakeDayRepo) DeleteDay(_ context.Context, providerID, date string) error {
	k := dayKey{providerID, date}
	if _, ok := f.days[k]; !ok {
		return availabilityRepo.ErrNotFound
	}
	delete(f.days, k)
	return nil
}

func (f *fakeDayRepo) BookedSlots(_ context.Context, providerID, date string) ([]models.Slot, error) {
	day, ok := f.days[dayKey{providerID, date}]
	if !ok {
		return nil, nil
	}
	var booked []models.Slot
	for _, slot := range day.Slots {
		if slot.IsBooked {
			booked = append(booked, slot)
		}
	}
	return booked, nil
}

func (f *fakeDayRepo) MarkLocked(_ context.Context, providerID, date string, now time.Time) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	day, ok := f.days[dayKey{providerID, date}]
	if !ok {
		return availabilityRepo.ErrNotFound
	}
	if day.LockedAt != nil {
		return availabilityRepo.ErrDayLocked
	}
	at := now
	day.LockedAt = &at
	f.locks++
	return nil
}

func (f *fakeDayRepo) ClearLock(_ context.Context, providerID, date string) error {
	if day, ok := f.days[dayKey{providerID, date}]; ok {
		day.LockedAt = nil
	}
	f.lockClears++
	return nil
}

type fakeBookingLister struct {
	bookingRepo.BookingRepository
	upcoming []models.Booking
}

func (f *fakeBookingLister) ListByProviderFrom(_ context.Context, providerID string, _ time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.upcoming {
		if b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeProviders struct {
	profiles map[string]*models.ProviderProfile
}

func (f *fakeProviders) GetProviderProfile(_ context.Context, id string) (*models.ProviderProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return p, nil
}

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newService() (*DefaultAvailabilityService, *fakeDayRepo) {
	repo := newFakeDayRepo()
	svc := &DefaultAvailabilityService{
		Repo:     repo,
		Bookings: &fakeBookingLister{},
		Providers: &fakeProviders{profiles: map[string]*models.ProviderProfile{
			"prov-1": {ID: "prov-1", TimeZone: "America/New_York", IsApproved: true},
			"prov-2": {ID: "prov-2", TimeZone: "Not/AZone", IsApproved: true},
			"prov-3": {ID: "prov-3", TimeZone: "UTC", IsApproved: false},
		}},
		Now: func() time.Time { return testNow },
	}
	return svc, repo
}

func setReq() models.SetAvailabilityRequest {
	return models.SetAvailabilityRequest{
		Date:            "2026-01-15",
		StartTime:       "09:00",
		EndTime:         "11:00",
		DurationMinutes: 30,
	}
}

func TestSetAvailabilityGeneratesGrid(t *testing.T) {
	svc, repo := newService()

	day, err := svc.SetAvailability(context.Background(), "prov-1", setReq())
	require.NoError(t, err)

	// 09:00-11:00 New York winter time is 14:00-16:00 UTC.
	require.Len(t, day.Slots, 4)
	assert.Equal(t, time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC), day.Slots[0].Start)
	assert.Equal(t, time.Date(2026, 1, 15, 16, 0, 0, 0, time.UTC), day.Slots[3].End)
	assert.Equal(t, "2026-01-15", day.Date)
	assert.Equal(t, "America/New_York", day.TimeZone)
	for _, slot := range day.Slots {
		assert.False(t, slot.IsBooked)
	}
	assert.Nil(t, day.LockedAt, "upsert releases the advisory lock")

	stored, err := repo.GetDay(context.Background(), "prov-1", "2026-01-15")
	require.NoError(t, err)
	assert.Len(t, stored.Slots, 4)
}

func TestSetAvailabilityCarriesBookedSlots(t *testing.T) {
	svc, repo := newService()

	_, err := svc.SetAvailability(context.Background(), "prov-1", setReq())
	require.NoError(t, err)

	// Book 14:30-15:00 UTC directly in the stored day.
	stored := repo.days[dayKey{"prov-1", "2026-01-15"}]
	stored.Slots[1].IsBooked = true

	// Rewrite with a wider window on the same 30-minute grid.
	req := setReq()
	req.EndTime = "12:00"
	day, err := svc.SetAvailability(context.Background(), "prov-1", req)
	require.NoError(t, err)

	require.Len(t, day.Slots, 6)
	assert.False(t, day.Slots[0].IsBooked)
	assert.True(t, day.Slots[1].IsBooked, "booked slot survives the rewrite")
	for _, slot := range day.Slots[2:] {
		assert.False(t, slot.IsBooked)
	}
}

func TestSetAvailabilityRejectsErasingBookedSlots(t *testing.T) {
	svc, repo := newService()

	_, err := svc.SetAvailability(context.Background(), "prov-1", setReq())
	require.NoError(t, err)
	repo.days[dayKey{"prov-1", "2026-01-15"}].Slots[1].IsBooked = true

	// A 45-minute grid has no (14:30, 15:00) interval.
	req := setReq()
	req.DurationMinutes = 45
	_, err = svc.SetAvailability(context.Background(), "prov-1", req)

	var bookedErr *BookedSlotsError
	require.ErrorAs(t, err, &bookedErr)
	assert.Equal(t, 1, bookedErr.Count)

	// The rejected rewrite must leave the old grid intact and unlocked.
	stored := repo.days[dayKey{"prov-1", "2026-01-15"}]
	assert.Len(t, stored.Slots, 4)
	assert.True(t, stored.Slots[1].IsBooked)
	assert.Nil(t, stored.LockedAt)
}

func TestSetAvailabilityDayLocked(t *testing.T) {
	svc, repo := newService()
	repo.lockErr = availabilityRepo.ErrDayLocked

	_, err := svc.SetAvailability(context.Background(), "prov-1", setReq())
	var lockedErr *DayLockedError
	require.ErrorAs(t, err, &lockedErr)
	assert.Equal(t, "2026-01-15", lockedErr.Date)
}

func TestSetAvailabilityPastDate(t *testing.T) {
	svc, _ := newService()
	req := setReq()
	req.Date = "2025-12-01"

	_, err := svc.SetAvailability(context.Background(), "prov-1", req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestSetAvailabilityInvalidWindow(t *testing.T) {
	svc, _ := newService()

	req := setReq()
	req.EndTime = "08:00"
	_, err := svc.SetAvailability(context.Background(), "prov-1", req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	req = setReq()
	req.DurationMinutes = -15
	_, err = svc.SetAvailability(context.Background(), "prov-1", req)
	require.ErrorAs(t, err, &valErr)
}

func TestSetAvailabilityUnknownProvider(t *testing.T) {
	svc, _ := newService()

	_, err := svc.SetAvailability(context.Background(), "prov-missing", setReq())
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "provider", nfErr.Entity)
}

func TestSetAvailabilityBadProviderZone(t *testing.T) {
	svc, _ := newService()

	_, err := svc.SetAvailability(context.Background(), "prov-2", setReq())
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestGetAvailabilityViewerZone(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SetAvailability(context.Background(), "prov-1", setReq())
	require.NoError(t, err)

	// 14:00 UTC is 19:30 in Kolkata (UTC+5:30).
	view, err := svc.GetAvailability(context.Background(), "prov-1", "2026-01-15", "Asia/Kolkata")
	require.NoError(t, err)
	require.Len(t, view.Slots, 4)
	assert.Equal(t, "2026-01-15 19:30", view.Slots[0].Start)
	assert.Equal(t, "2026-01-15 20:00", view.Slots[0].End)
	assert.Equal(t, "Asia/Kolkata", view.TimeZone)
}

func TestGetAvailabilityDefaultsToUTC(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SetAvailability(context.Background(), "prov-1", setReq())
	require.NoError(t, err)

	view, err := svc.GetAvailability(context.Background(), "prov-1", "2026-01-15", "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", view.TimeZone)
	assert.Equal(t, "2026-01-15 14:00", view.Slots[0].Start)
}

func TestGetAvailabilityMissingDayIsEmpty(t *testing.T) {
	svc, _ := newService()

	view, err := svc.GetAvailability(context.Background(), "prov-1", "2026-03-01", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", view.Date)
	assert.Empty(t, view.Slots)
	assert.NotNil(t, view.Slots, "missing day serializes as [], not null")
}

func TestGetAvailabilityHidesUnapprovedProvider(t *testing.T) {
	svc, _ := newService()

	// An unapproved provider may publish ahead of approval, but the
	// read path must not expose the day.
	_, err := svc.SetAvailability(context.Background(), "prov-3", setReq())
	require.NoError(t, err)

	var nfErr *NotFoundError
	_, err = svc.GetAvailability(context.Background(), "prov-3", "2026-01-15", "UTC")
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "provider", nfErr.Entity)
}

func TestGetAvailabilityUnknownProvider(t *testing.T) {
	svc, _ := newService()

	var nfErr *NotFoundError
	_, err := svc.GetAvailability(context.Background(), "prov-missing", "2026-01-15", "UTC")
	require.ErrorAs(t, err, &nfErr)
}

func TestProviderDashboardBeforeApproval(t *testing.T) {
	svc, _ := newService()

	req := setReq()
	req.Date = "2026-01-03"
	_, err := svc.SetAvailability(context.Background(), "prov-3", req)
	require.NoError(t, err)

	// The dashboard is the provider's own view and works pre-approval.
	dash, err := svc.ProviderDashboard(context.Background(), "prov-3")
	require.NoError(t, err)
	require.Len(t, dash.Days, 1)
	assert.Equal(t, "2026-01-03", dash.Days[0].Date)
}

func TestGetAvailabilityRejectsBadInput(t *testing.T) {
	svc, _ := newService()

	var valErr *ValidationError
	_, err := svc.GetAvailability(context.Background(), "prov-1", "2026-01-15", "Not/AZone")
	require.ErrorAs(t, err, &valErr)

	_, err = svc.GetAvailability(context.Background(), "prov-1", "15-01-2026", "UTC")
	require.ErrorAs(t, err, &valErr)
}

func TestDeleteAvailability(t *testing.T) {
	svc, repo := newService()
	_, err := svc.SetAvailability(context.Background(), "prov-1", setReq())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAvailability(context.Background(), "prov-1", "2026-01-15"))
	_, err = repo.GetDay(context.Background(), "prov-1", "2026-01-15")
	assert.ErrorIs(t, err, availabilityRepo.ErrNotFound)

	var nfErr *NotFoundError
	err = svc.DeleteAvailability(context.Background(), "prov-1", "2026-01-15")
	require.ErrorAs(t, err, &nfErr)
}

func TestProviderDashboard(t *testing.T) {
	svc, _ := newService()
	svc.Bookings = &fakeBookingLister{upcoming: []models.Booking{
		{
			ID:         "booking-1",
			ProviderID: "prov-1",
			UserID:     "user-1",
			Status:     models.BookingConfirmed,
			Start:      time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC),
			End:        time.Date(2026, 1, 2, 14, 30, 0, 0, time.UTC),
		},
	}}

	req := setReq()
	req.Date = "2026-01-03"
	_, err := svc.SetAvailability(context.Background(), "prov-1", req)
	require.NoError(t, err)

	dash, err := svc.ProviderDashboard(context.Background(), "prov-1")
	require.NoError(t, err)

	require.Len(t, dash.Bookings, 1)
	// 14:00 UTC on Jan 2 is 09:00 in New York.
	assert.Equal(t, "2026-01-02 09:00", dash.Bookings[0].StartLocal)

	require.Len(t, dash.Days, 1)
	assert.Equal(t, "2026-01-03", dash.Days[0].Date)
	// Dashboard days are shown in the provider's own zone.
	assert.Equal(t, "2026-01-03 09:00", dash.Days[0].Slots[0].Start)
}
