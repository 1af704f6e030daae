package mocks

import (
	"context"

	"github.com/oceanview/resort-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRoomRepo struct {
	mock.Mock
	domain.RoomRepository
}

func (m *MockRoomRepo) GetById(ctx context.Context, id int) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepo) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Room, *domain.Metadata, error) {

	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Room), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockRoomRepo) UpdateStatus(ctx context.Context, id int, status domain.RoomStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
