package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	availabilityRepo "bookable/database/repository/availability"
	bookingRepo "bookable/database/repository/booking"
	userRepo "bookable/database/repository/user"
	"bookable/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotKey struct {
	provider   string
	start, end int64
}

func keyOf(provider string, start, end time.Time) slotKey {
	return slotKey{provider: provider, start: start.Unix(), end: end.Unix()}
}

// fakeAvailability mirrors the store's conditional-update contract: the
// claim decision and the flag flip happen under one lock.
type fakeAvailability struct {
	availabilityRepo.AvailabilityRepository
	mu       sync.Mutex
	booked   map[slotKey]bool
	releases int
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{booked: make(map[slotKey]bool)}
}

func (f *fakeAvailability) addSlot(provider string, start, end time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booked[keyOf(provider, start, end)] = false
}

func (f *fakeAvailability) isBooked(provider string, start, end time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.booked[keyOf(provider, start, end)]
}

func (f *fakeAvailability) TryClaimSlot(_ context.Context, provider string, start, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(provider, start, end)
	taken, ok := f.booked[k]
	if !ok || taken {
		return availabilityRepo.ErrConflict
	}
	f.booked[k] = true
	return nil
}

func (f *fakeAvailability) ReleaseSlot(_ context.Context, provider string, start, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(provider, start, end)
	if _, ok := f.booked[k]; ok {
		f.booked[k] = false
	}
	f.releases++
	return nil
}

type fakeBookings struct {
	bookingRepo.BookingRepository
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	seq       int
	createErr error
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	if b.ID == "" {
		b.ID = fmt.Sprintf("booking-%d", f.seq)
	}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	f.bookings[b.ID] = &stored
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	out := *b
	return &out, nil
}

// UpdateStatus mirrors the store's conditional write: the status check
// and the flip happen under one lock.
func (f *fakeBookings) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return nil, bookingRepo.ErrNotFound
	}
	b.Status = to
	out := *b
	return &out, nil
}

func (f *fakeBookings) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookings) HasOverlapping(_ context.Context, userID string, start, end time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == userID && b.Status.Active() && b.Start.Before(end) && b.End.After(start) {
			return true, nil
		}
	}
	return false, nil
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

type fakeCatalog struct {
	known map[string]bool
}

func (f *fakeCatalog) Exists(_ context.Context, id string) (bool, error) {
	return f.known[id], nil
}

type fixture struct {
	svc      *DefaultReservationService
	avail    *fakeAvailability
	bookings *fakeBookings
}

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	avail := newFakeAvailability()
	bookings := newFakeBookings()
	svc := &DefaultReservationService{
		Availability: avail,
		Bookings:     bookings,
		Providers: &fakeProviders{profiles: map[string]*models.ProviderProfile{
			"prov-1": {ID: "prov-1", TimeZone: "America/New_York", IsApproved: true},
			"prov-2": {ID: "prov-2", TimeZone: "UTC", IsApproved: false},
		}},
		Catalog: &fakeCatalog{known: map[string]bool{"svc-1": true}},
		Now:     func() time.Time { return testNow },
	}
	return &fixture{svc: svc, avail: avail, bookings: bookings}
}

// 2026-01-15 09:00 in New York (EST, UTC-5) is 14:00 UTC.
var (
	slotStart = time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)
	slotEnd   = time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)
)

func reserveReq() models.ReserveRequest {
	return models.ReserveRequest{
		ProviderID: "prov-1",
		ServiceID:  "svc-1",
		StartLocal: "2026-01-15 09:00",
		EndLocal:   "2026-01-15 09:30",
	}
}

func TestReserveSuccess(t *testing.T) {
	fx := newFixture(t)
	fx.avail.addSlot("prov-1", slotStart, slotEnd)

	ctx := WithPrincipalTimeZone(context.Background(), "Europe/Berlin")
	booking, err := fx.svc.Reserve(ctx, "user-1", reserveReq())
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, slotStart, booking.Start)
	assert.Equal(t, slotEnd, booking.End)
	assert.Equal(t, "Europe/Berlin", booking.TimeZone)
	assert.True(t, fx.avail.isBooked("prov-1", slotStart, slotEnd))
}

func TestReserveMutualExclusion(t *testing.T) {
	fx := newFixture(t)
	fx.avail.addSlot("prov-1", slotStart, slotEnd)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, user := range []string{"user-1", "user-2"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := fx.svc.Reserve(context.Background(), user, reserveReq())
			results <- err
		}(user)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		var slotErr *SlotUnavailableError
		require.ErrorAs(t, err, &slotErr)
		conflicts++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
	assert.True(t, fx.avail.isBooked("prov-1", slotStart, slotEnd))
}

func TestReservePastTime(t *testing.T) {
	fx := newFixture(t)
	req := reserveReq()
	req.StartLocal = "2025-12-31 09:00"
	req.EndLocal = "2025-12-31 09:30"

	_, err := fx.svc.Reserve(context.Background(), "user-1", req)
	var pastErr *PastTimeError
	require.ErrorAs(t, err, &pastErr)
}

func TestReserveEndBeforeStart(t *testing.T) {
	fx := newFixture(t)
	req := reserveReq()
	req.EndLocal = "2026-01-15 08:30"

	_, err := fx.svc.Reserve(context.Background(), "user-1", req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestReserveMalformedLocalTime(t *testing.T) {
	fx := newFixture(t)
	req := reserveReq()
	req.StartLocal = "15/01/2026 9am"

	_, err := fx.svc.Reserve(context.Background(), "user-1", req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestReserveUnknownProvider(t *testing.T) {
	fx := newFixture(t)
	req := reserveReq()
	req.ProviderID = "prov-missing"

	_, err := fx.svc.Reserve(context.Background(), "user-1", req)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "provider", nfErr.Entity)
}

func TestReserveUnapprovedProvider(t *testing.T) {
	fx := newFixture(t)
	req := reserveReq()
	req.ProviderID = "prov-2"

	_, err := fx.svc.Reserve(context.Background(), "user-1", req)
	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
}

func TestReserveUnknownService(t *testing.T) {
	fx := newFixture(t)
	req := reserveReq()
	req.ServiceID = "svc-missing"

	_, err := fx.svc.Reserve(context.Background(), "user-1", req)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "service", nfErr.Entity)
}

func TestReserveDoubleBooking(t *testing.T) {
	fx := newFixture(t)
	fx.avail.addSlot("prov-1", slotStart, slotEnd)

	// The requester already holds an overlapping confirmed booking with
	// a different provider.
	require.NoError(t, fx.bookings.Create(context.Background(), &models.Booking{
		UserID:     "user-1",
		ProviderID: "prov-other",
		Status:     models.BookingConfirmed,
		Start:      slotStart.Add(-15 * time.Minute),
		End:        slotStart.Add(15 * time.Minute),
	}))

	_, err := fx.svc.Reserve(context.Background(), "user-1", reserveReq())
	var dblErr *DoubleBookingError
	require.ErrorAs(t, err, &dblErr)
	// The losing path must not have touched the slot.
	assert.False(t, fx.avail.isBooked("prov-1", slotStart, slotEnd))
}

func TestReserveSlotAlreadyBooked(t *testing.T) {
	fx := newFixture(t)
	fx.avail.addSlot("prov-1", slotStart, slotEnd)
	require.NoError(t, fx.avail.TryClaimSlot(context.Background(), "prov-1", slotStart, slotEnd))

	_, err := fx.svc.Reserve(context.Background(), "user-1", reserveReq())
	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
}

func TestReserveMissingSlot(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Reserve(context.Background(), "user-1", reserveReq())
	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
}

func TestReserveReleasesSlotWhenInsertFails(t *testing.T) {
	fx := newFixture(t)
	fx.avail.addSlot("prov-1", slotStart, slotEnd)
	fx.bookings.createErr = errors.New("storage down")

	_, err := fx.svc.Reserve(context.Background(), "user-1", reserveReq())
	require.Error(t, err)
	assert.False(t, fx.avail.isBooked("prov-1", slotStart, slotEnd), "claimed slot must not be stranded")
}

func TestReserveDuplicateInsertMapsToSlotUnavailable(t *testing.T) {
	fx := newFixture(t)
	fx.avail.addSlot("prov-1", slotStart, slotEnd)
	fx.bookings.createErr = bookingRepo.ErrDuplicate

	_, err := fx.svc.Reserve(context.Background(), "user-1", reserveReq())
	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.False(t, fx.avail.isBooked("prov-1", slotStart, slotEnd))
}

func TestReleaseIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	fx.avail.addSlot("prov-1", slotStart, slotEnd)
	require.NoError(t, fx.avail.TryClaimSlot(context.Background(), "prov-1", slotStart, slotEnd))

	require.NoError(t, fx.svc.Release(context.Background(), "prov-1", slotStart, slotEnd))
	require.NoError(t, fx.svc.Release(context.Background(), "prov-1", slotStart, slotEnd))
	assert.False(t, fx.avail.isBooked("prov-1", slotStart, slotEnd))

	// Releasing a slot that never existed succeeds silently too.
	require.NoError(t, fx.svc.Release(context.Background(), "prov-1", slotEnd, slotEnd.Add(30*time.Minute)))
}
