package mocks

import (
	"context"

	"github.com/oceanview/resort-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockGuestRepo struct {
	mock.Mock
	domain.GuestRepository
}

func (m *MockGuestRepo) Create(ctx context.Context, guest *domain.Guest) error {
	args := m.Called(ctx, guest)
	return args.Error(0)
}

func (m *MockGuestRepo) GetById(ctx context.Context, id int) (*domain.Guest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}

func (m *MockGuestRepo) GetByUserId(ctx context.Context, userId int) (*domain.Guest, error) {
	args := m.Called(ctx, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}
