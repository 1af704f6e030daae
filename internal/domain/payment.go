package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

// Payment is a record of money taken at the desk; gateway integration is
// out of scope, so there is no external provider reference here.
type Payment struct {
	ID            int
	ReservationID int
	PaymentNumber string
	Amount        decimal.Decimal
	Currency      string
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
	PaymentDate   *time.Time
	CreatedAt     time.Time
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// Refund flips a completed payment to REFUNDED.
func (p *Payment) Refund() error {
	if !p.IsCompleted() {
		return ErrPaymentNotRefundable
	}

	p.Status = PaymentStatusRefunded

	return nil
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetById(ctx context.Context, id int) (*Payment, error)
	GetByReservationId(ctx context.Context, reservationId int) ([]Payment, error)
	UpdateStatus(ctx context.Context, id int, status PaymentStatus) error
}
