package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"accredapi/internal/model"
	"accredapi/internal/service"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Decide(ctx context.Context, actor model.Actor, id string, in service.DecideInput) (*model.Document, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}
