package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"accredapi/internal/model"
)

type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) ListPrograms(ctx context.Context) ([]model.Program, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Program), args.Error(1)
}

func (m *MockTaxonomyRepository) FindProgram(ctx context.Context, id int64) (*model.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockTaxonomyRepository) ListAreas(ctx context.Context, programID int64) ([]model.Area, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Area), args.Error(1)
}

func (m *MockTaxonomyRepository) ListParameters(ctx context.Context, programID int64) ([]model.Parameter, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Parameter), args.Error(1)
}

func (m *MockTaxonomyRepository) ResolveParameter(ctx context.Context, programID, areaID, parameterID int64) (*model.Parameter, error) {
	args := m.Called(ctx, programID, areaID, parameterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parameter), args.Error(1)
}
