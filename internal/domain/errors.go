package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrInvalidDateRange     = errors.New("check-out date must be after check-in date")
	ErrPaymentNotRefundable = errors.New("only completed payments can be refunded")
)

// IllegalTransitionError is returned by the reservation transition methods
// when the requested status change is not permitted from the current state.
type IllegalTransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal reservation transition from %s to %s", e.From, e.To)
}
