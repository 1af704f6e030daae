package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "PENDING"
	ReservationStatusConfirmed  ReservationStatus = "CONFIRMED"
	ReservationStatusCheckedIn  ReservationStatus = "CHECKED_IN"
	ReservationStatusCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationStatusCancelled  ReservationStatus = "CANCELLED"
)

// moneyPlaces is the scale every monetary amount is rounded to. Rounding
// happens after each calculation step, not once at the end, so that stored
// intermediate amounts always match what appears on the guest's bill.
const moneyPlaces = 2

var oneHundred = decimal.NewFromInt(100)

type Reservation struct {
	ID                  int
	ReservationNumber   string
	GuestID             int
	RoomID              int
	CheckInDate         time.Time
	CheckOutDate        time.Time
	NumberOfGuests      int
	TotalAmount         decimal.Decimal
	DiscountAmount      decimal.Decimal
	TaxAmount           decimal.Decimal
	ServiceChargeAmount decimal.Decimal
	FinalAmount         decimal.Decimal
	Status              ReservationStatus
	SpecialRequests     string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int
}

func NewReservation(guestID, roomID int, checkIn, checkOut time.Time) *Reservation {
	return &Reservation{
		GuestID:             guestID,
		RoomID:              roomID,
		CheckInDate:         checkIn,
		CheckOutDate:        checkOut,
		NumberOfGuests:      1,
		TotalAmount:         decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		ServiceChargeAmount: decimal.Zero,
		FinalAmount:         decimal.Zero,
		Status:              ReservationStatusPending,
		CreatedAt:           time.Now(),
	}
}

// Nights returns the length of the stay in nights. It is always derived
// from the two dates and never stored independently.
func (r *Reservation) Nights() int {
	if r.CheckInDate.IsZero() || r.CheckOutDate.IsZero() {
		return 0
	}

	return int(toDate(r.CheckOutDate).Sub(toDate(r.CheckInDate)).Hours() / 24)
}

// CalculateAmounts fills in the monetary breakdown of the stay from the
// room's nightly rate and the configured tax and service charge
// percentages (whole-number percentages, e.g. 10.0 for 10%).
//
// Each step rounds half-up to two decimal places before feeding the next
// one. The discount is clamped so the taxable base never goes negative.
// On error no field is touched, and repeating the call with the same
// inputs produces the same amounts.
func (r *Reservation) CalculateAmounts(nightlyRate, taxPercent, serviceChargePercent decimal.Decimal) error {
	nights := r.Nights()
	if nights <= 0 {
		return ErrInvalidDateRange
	}

	total := nightlyRate.Mul(decimal.NewFromInt(int64(nights))).Round(moneyPlaces)

	taxableBase := total.Sub(r.DiscountAmount).Round(moneyPlaces)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	tax := taxableBase.Mul(taxPercent).Div(oneHundred).Round(moneyPlaces)
	serviceCharge := taxableBase.Mul(serviceChargePercent).Div(oneHundred).Round(moneyPlaces)
	final := taxableBase.Add(tax).Add(serviceCharge).Round(moneyPlaces)

	r.TotalAmount = total
	r.TaxAmount = tax
	r.ServiceChargeAmount = serviceCharge
	r.FinalAmount = final

	return nil
}

func (r *Reservation) IsPending() bool {
	return r.Status == ReservationStatusPending
}

func (r *Reservation) IsConfirmed() bool {
	return r.Status == ReservationStatusConfirmed
}

func (r *Reservation) IsCheckedIn() bool {
	return r.Status == ReservationStatusCheckedIn
}

func (r *Reservation) IsCheckedOut() bool {
	return r.Status == ReservationStatusCheckedOut
}

func (r *Reservation) IsCancelled() bool {
	return r.Status == ReservationStatusCancelled
}

// IsActive reports whether the reservation currently holds its room.
func (r *Reservation) IsActive() bool {
	return r.IsConfirmed() || r.IsCheckedIn()
}

// CanCheckIn reports whether the guest may check in on the given day.
// Check-in requires a confirmed reservation and is not allowed before the
// scheduled check-in date. The caller supplies "today" so the check stays
// deterministic under test.
func (r *Reservation) CanCheckIn(today time.Time) bool {
	return r.IsConfirmed() && !toDate(today).Before(toDate(r.CheckInDate))
}

func (r *Reservation) CanCheckOut() bool {
	return r.IsCheckedIn()
}

// CanCancel is false once the stay is in progress or finished.
func (r *Reservation) CanCancel() bool {
	return r.IsPending() || r.IsConfirmed()
}

// Confirm moves a pending reservation to CONFIRMED.
func (r *Reservation) Confirm() error {
	if !r.IsPending() {
		return &IllegalTransitionError{From: r.Status, To: ReservationStatusConfirmed}
	}

	r.Status = ReservationStatusConfirmed

	return nil
}

// CheckIn moves a confirmed reservation to CHECKED_IN, provided the
// scheduled check-in date has been reached.
func (r *Reservation) CheckIn(today time.Time) error {
	if !r.CanCheckIn(today) {
		return &IllegalTransitionError{From: r.Status, To: ReservationStatusCheckedIn}
	}

	r.Status = ReservationStatusCheckedIn

	return nil
}

// CheckOut moves a checked-in reservation to its terminal CHECKED_OUT state.
func (r *Reservation) CheckOut() error {
	if !r.CanCheckOut() {
		return &IllegalTransitionError{From: r.Status, To: ReservationStatusCheckedOut}
	}

	r.Status = ReservationStatusCheckedOut

	return nil
}

// Cancel moves a pending or confirmed reservation to CANCELLED.
func (r *Reservation) Cancel() error {
	if !r.CanCancel() {
		return &IllegalTransitionError{From: r.Status, To: ReservationStatusCancelled}
	}

	r.Status = ReservationStatusCancelled

	return nil
}

// Equal compares two reservations by persistent identity. Reservations
// that have not been assigned an ID yet are only equal to themselves.
func (r *Reservation) Equal(other *Reservation) bool {
	if r == nil || other == nil {
		return r == other
	}

	if r.ID == 0 || other.ID == 0 {
		return r == other
	}

	return r.ID == other.ID && r.ReservationNumber == other.ReservationNumber
}

func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetById(ctx context.Context, id int) (*Reservation, error)
	GetByNumber(ctx context.Context, number string) (*Reservation, error)
	Update(ctx context.Context, reservation *Reservation) error
	// Transition loads the reservation with a row-level lock, applies fn
	// and writes the new status back within a single transaction, so a
	// guard can never be checked against a snapshot that goes stale
	// before the write.
	Transition(ctx context.Context, id int, fn func(*Reservation) error) (*Reservation, error)
	GetByGuestId(ctx context.Context, guestId int, pagination Pagination) ([]Reservation, *Metadata, error)
	GetByRoomId(ctx context.Context, roomId int) ([]Reservation, error)
	GetAll(ctx context.Context, pagination Pagination) ([]Reservation, *Metadata, error)
	GetActive(ctx context.Context) ([]Reservation, error)
	GetArrivalsByDate(ctx context.Context, date time.Time) ([]Reservation, error)
	GetDeparturesByDate(ctx context.Context, date time.Time) ([]Reservation, error)
}
