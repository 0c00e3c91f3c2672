package repository

import (
	"context"

	"accredapi/internal/model"
)

// TaxonomyRepository reads the seeded program → area → parameter hierarchy.
type TaxonomyRepository interface {
	ListPrograms(ctx context.Context) ([]model.Program, error)
	FindProgram(ctx context.Context, id int64) (*model.Program, error)
	ListAreas(ctx context.Context, programID int64) ([]model.Area, error)
	ListParameters(ctx context.Context, programID int64) ([]model.Parameter, error)

	// ResolveParameter returns the parameter only when it belongs to areaID and areaID
	// belongs to programID; otherwise sql.ErrNoRows.
	ResolveParameter(ctx context.Context, programID, areaID, parameterID int64) (*model.Parameter, error)
}
