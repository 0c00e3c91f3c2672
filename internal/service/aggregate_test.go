package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredapi/internal/model"
	"accredapi/internal/repository"
	repoMocks "accredapi/internal/repository/mocks"
)

func TestValidateScope(t *testing.T) {
	tests := []struct {
		name    string
		scope   model.Scope
		wantErr bool
		field   string
	}{
		{name: "global", scope: model.Scope{}},
		{name: "program", scope: model.Scope{ProgramID: 1}},
		{name: "full path", scope: model.Scope{ProgramID: 1, AreaID: 2, ParameterID: 3, Category: model.CategorySystem}},
		{name: "area without program", scope: model.Scope{AreaID: 2}, wantErr: true, field: "area"},
		{name: "parameter without area", scope: model.Scope{ProgramID: 1, ParameterID: 3}, wantErr: true, field: "parameter"},
		{name: "category without parameter", scope: model.Scope{ProgramID: 1, AreaID: 2, Category: model.CategoryOutcomes}, wantErr: true, field: "category"},
		{name: "unknown category", scope: model.Scope{ProgramID: 1, AreaID: 2, ParameterID: 3, Category: "misc"}, wantErr: true, field: "category"},
		{name: "negative id", scope: model.Scope{ProgramID: -1}, wantErr: true, field: "program"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScope(tt.scope)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, KindValidation, se.Kind)
			assert.Contains(t, se.Fields, tt.field)
		})
	}
}

func TestAggregateService_Counts(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewAggregateService(mRepo, nil)

	program, area := int64(1), int64(2)
	mRepo.On("CountByStatus", ctx, repository.DocumentFilter{ProgramID: &program, AreaID: &area}).
		Return(model.StatusCounts{Pending: 3, Approved: 5, Disapproved: 1}, nil)

	scope := model.Scope{ProgramID: 1, AreaID: 2}
	pending, err := svc.CountPending(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)

	approved, err := svc.CountApproved(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 5, approved)

	_, err = svc.Counts(ctx, model.Scope{AreaID: 2})
	assert.ErrorIs(t, err, ErrValidation)

	mRepo.On("CountByStatus", ctx, repository.DocumentFilter{ProgramID: &area}).
		Return(model.StatusCounts{}, errors.New("db fail"))
	_, err = svc.Counts(ctx, model.Scope{ProgramID: 2})
	assert.ErrorContains(t, err, "db fail")

	mRepo.AssertExpectations(t)
}

func TestAggregateService_Breakdown(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewAggregateService(mRepo, nil)

	program := int64(1)
	rows := []BreakdownRow{{ProgramID: 1, AreaID: 2, StatusCounts: model.StatusCounts{Pending: 1}}}
	mRepo.On("GroupCounts", ctx, repository.GroupByArea, repository.DocumentFilter{ProgramID: &program}).Return(rows, nil)

	got, err := svc.Breakdown(ctx, "area", model.Scope{ProgramID: 1})
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	_, err = svc.Breakdown(ctx, "campus", model.Scope{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Breakdown(ctx, "parameter", model.Scope{ParameterID: 4})
	assert.ErrorIs(t, err, ErrValidation)

	mRepo.AssertExpectations(t)
}

func TestAggregateService_Navigation(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	mTax := new(repoMocks.MockTaxonomyRepository)
	svc := NewAggregateService(mRepo, mTax)

	program := int64(1)
	mTax.On("FindProgram", ctx, int64(1)).Return(&model.Program{ID: 1, Code: "BSIT"}, nil)
	mTax.On("ListAreas", ctx, int64(1)).Return([]model.Area{
		{ID: 10, ProgramID: 1, Code: "I"},
		{ID: 11, ProgramID: 1, Code: "II"},
	}, nil)
	mTax.On("ListParameters", ctx, int64(1)).Return([]model.Parameter{
		{ID: 100, ProgramID: 1, AreaID: 10, Code: "A"},
		{ID: 101, ProgramID: 1, AreaID: 10, Code: "B"},
		{ID: 110, ProgramID: 1, AreaID: 11, Code: "A"},
	}, nil)
	mRepo.On("GroupCounts", ctx, repository.GroupByParameter, repository.DocumentFilter{ProgramID: &program}).Return([]BreakdownRow{
		{ProgramID: 1, AreaID: 10, ParameterID: 100, Category: model.CategorySystem, StatusCounts: model.StatusCounts{Pending: 2}},
		{ProgramID: 1, AreaID: 10, ParameterID: 100, Category: model.CategoryOutcomes, StatusCounts: model.StatusCounts{Approved: 1}},
		{ProgramID: 1, AreaID: 11, ParameterID: 110, Category: model.CategoryImplementation, StatusCounts: model.StatusCounts{Pending: 1, Disapproved: 4}},
	}, nil)

	nav, err := svc.Navigation(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "BSIT", nav.Code)
	assert.Equal(t, model.StatusCounts{Pending: 3, Approved: 1, Disapproved: 4}, nav.Counts)
	require.Len(t, nav.Areas, 2)

	areaI := nav.Areas[0]
	assert.Equal(t, model.StatusCounts{Pending: 2, Approved: 1}, areaI.Counts)
	require.Len(t, areaI.Parameters, 2)
	require.Len(t, areaI.Parameters[0].Categories, 3)
	assert.Equal(t, model.CategorySystem, areaI.Parameters[0].Categories[0].Category)
	assert.Equal(t, 2, areaI.Parameters[0].Categories[0].Counts.Pending)
	assert.Zero(t, areaI.Parameters[1].Counts.Total())

	assert.Equal(t, model.StatusCounts{Pending: 1, Disapproved: 4}, nav.Areas[1].Counts)

	mTax.On("FindProgram", ctx, int64(9)).Return(nil, sql.ErrNoRows)
	_, err = svc.Navigation(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Navigation(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)
}
