package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coiscan/internal/domain"
	"coiscan/internal/port"
)

// MockOCRBackend is a mock implementation of port.OCRBackend.
type MockOCRBackend struct {
	mock.Mock
}

func (m *MockOCRBackend) Acquire(ctx context.Context, input port.AcquireInput) (*domain.OCRResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OCRResult), args.Error(1)
}
