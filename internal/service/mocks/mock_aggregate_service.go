package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"accredapi/internal/model"
	"accredapi/internal/service"
)

type MockAggregateService struct {
	mock.Mock
}

func (m *MockAggregateService) CountPending(ctx context.Context, scope model.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockAggregateService) CountApproved(ctx context.Context, scope model.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockAggregateService) Counts(ctx context.Context, scope model.Scope) (model.StatusCounts, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(model.StatusCounts), args.Error(1)
}

func (m *MockAggregateService) Breakdown(ctx context.Context, by string, scope model.Scope) ([]service.BreakdownRow, error) {
	args := m.Called(ctx, by, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BreakdownRow), args.Error(1)
}

func (m *MockAggregateService) Programs(ctx context.Context) ([]model.Program, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Program), args.Error(1)
}

func (m *MockAggregateService) Navigation(ctx context.Context, programID int64) (*service.NavProgram, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NavProgram), args.Error(1)
}
