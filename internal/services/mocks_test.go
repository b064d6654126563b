package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
