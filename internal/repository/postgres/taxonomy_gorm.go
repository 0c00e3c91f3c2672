package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"accredapi/internal/model"
	"accredapi/internal/repository"
)

// ProgramRow, AreaRow and ParameterRow map the seeded reference tables.
// They are exported for the seeder; everything else works with model types.
type ProgramRow struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;not null"`
	Name string `gorm:"not null"`
}

func (ProgramRow) TableName() string { return "programs" }

type AreaRow struct {
	ID        int64  `gorm:"primaryKey"`
	ProgramID int64  `gorm:"not null"`
	Code      string `gorm:"not null"`
	Name      string `gorm:"not null"`
}

func (AreaRow) TableName() string { return "areas" }

type ParameterRow struct {
	ID        int64  `gorm:"primaryKey"`
	ProgramID int64  `gorm:"not null"`
	AreaID    int64  `gorm:"not null"`
	Code      string `gorm:"not null"`
	Name      string `gorm:"not null"`
}

func (ParameterRow) TableName() string { return "parameters" }

// TaxonomyGorm is a gorm implementation of repository.TaxonomyRepository.
type TaxonomyGorm struct {
	db *gorm.DB
}

// NewTaxonomyGorm creates a taxonomy repository on top of db.
func NewTaxonomyGorm(db *gorm.DB) *TaxonomyGorm {
	return &TaxonomyGorm{db: db}
}

var _ repository.TaxonomyRepository = (*TaxonomyGorm)(nil)

// notFound translates gorm's sentinel into the one the rest of the code checks.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sql.ErrNoRows
	}
	return err
}

func (r *TaxonomyGorm) ListPrograms(ctx context.Context) ([]model.Program, error) {
	var rows []ProgramRow
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Program, 0, len(rows))
	for _, p := range rows {
		out = append(out, model.Program{ID: p.ID, Code: p.Code, Name: p.Name})
	}
	return out, nil
}

func (r *TaxonomyGorm) FindProgram(ctx context.Context, id int64) (*model.Program, error) {
	var p ProgramRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &model.Program{ID: p.ID, Code: p.Code, Name: p.Name}, nil
}

func (r *TaxonomyGorm) ListAreas(ctx context.Context, programID int64) ([]model.Area, error) {
	var rows []AreaRow
	if err := r.db.WithContext(ctx).Where("program_id = ?", programID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Area, 0, len(rows))
	for _, a := range rows {
		out = append(out, model.Area{ID: a.ID, ProgramID: a.ProgramID, Code: a.Code, Name: a.Name})
	}
	return out, nil
}

func (r *TaxonomyGorm) ListParameters(ctx context.Context, programID int64) ([]model.Parameter, error) {
	var rows []ParameterRow
	if err := r.db.WithContext(ctx).Where("program_id = ?", programID).Order("area_id, code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Parameter, 0, len(rows))
	for _, p := range rows {
		out = append(out, toParameter(p))
	}
	return out, nil
}

func (r *TaxonomyGorm) ResolveParameter(ctx context.Context, programID, areaID, parameterID int64) (*model.Parameter, error) {
	var p ParameterRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND area_id = ? AND program_id = ?", parameterID, areaID, programID).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	out := toParameter(p)
	return &out, nil
}

func toParameter(p ParameterRow) model.Parameter {
	return model.Parameter{ID: p.ID, ProgramID: p.ProgramID, AreaID: p.AreaID, Code: p.Code, Name: p.Name}
}
