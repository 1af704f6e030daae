package domain

import (
	"context"
	"time"
)

// Guest holds the resort-specific profile attached to a user account.
type Guest struct {
	ID         int
	UserID     int
	Address    string
	City       string
	Country    string
	PostalCode string
	IDType     string
	IDNumber   string
	CreatedAt  time.Time
}

type GuestRepository interface {
	Create(ctx context.Context, guest *Guest) error
	GetById(ctx context.Context, id int) (*Guest, error)
	GetByUserId(ctx context.Context, userId int) (*Guest, error)
}
