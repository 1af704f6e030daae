package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomTypeSingle RoomType = "SINGLE"
	RoomTypeDouble RoomType = "DOUBLE"
	RoomTypeDeluxe RoomType = "DELUXE"
	RoomTypeSuite  RoomType = "SUITE"
	RoomTypeFamily RoomType = "FAMILY"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusReserved    RoomStatus = "RESERVED"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

type Room struct {
	ID            int
	RoomNumber    string
	RoomType      RoomType
	Floor         int
	Capacity      int
	PricePerNight decimal.Decimal
	Description   string
	Status        RoomStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RoomRepository interface {
	GetById(ctx context.Context, id int) (*Room, error)
	GetAll(ctx context.Context, pagination Pagination) ([]Room, *Metadata, error)
	UpdateStatus(ctx context.Context, id int, status RoomStatus) error
}
