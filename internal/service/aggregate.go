package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"accredapi/internal/model"
	"accredapi/internal/repository"
)

// BreakdownRow is one grouped count row.
type BreakdownRow = repository.GroupCount

// NavCategory is a leaf of the navigation tree.
type NavCategory struct {
	Category model.Category     `json:"category"`
	Counts   model.StatusCounts `json:"counts"`
}

// NavParameter is a parameter node with per-category counts.
type NavParameter struct {
	model.Parameter
	Counts     model.StatusCounts `json:"counts"`
	Categories []NavCategory      `json:"categories"`
}

// NavArea is an area node; its counts roll up from its parameters.
type NavArea struct {
	model.Area
	Counts     model.StatusCounts `json:"counts"`
	Parameters []NavParameter     `json:"parameters"`
}

// NavProgram is the sidebar tree of one program with per-node review counts.
type NavProgram struct {
	model.Program
	Counts model.StatusCounts `json:"counts"`
	Areas  []NavArea          `json:"areas"`
}

// AggregateService answers count and navigation queries. Every call reads the
// current table state; nothing is cached.
type AggregateService interface {
	CountPending(ctx context.Context, scope model.Scope) (int, error)
	CountApproved(ctx context.Context, scope model.Scope) (int, error)
	Counts(ctx context.Context, scope model.Scope) (model.StatusCounts, error)
	Breakdown(ctx context.Context, by string, scope model.Scope) ([]BreakdownRow, error)
	Programs(ctx context.Context) ([]model.Program, error)
	Navigation(ctx context.Context, programID int64) (*NavProgram, error)
}

type aggregateService struct {
	repo     repository.DocumentRepository
	taxonomy repository.TaxonomyRepository
}

// NewAggregateService creates the counting service over documents and the taxonomy.
func NewAggregateService(repo repository.DocumentRepository, taxonomy repository.TaxonomyRepository) AggregateService {
	return &aggregateService{repo: repo, taxonomy: taxonomy}
}

// ValidateScope checks that scope narrows top-down: area needs program, parameter
// needs area, category needs parameter.
func ValidateScope(scope model.Scope) error {
	fields := map[string]string{}
	if scope.ProgramID < 0 {
		fields["program"] = "must be positive"
	}
	if scope.AreaID < 0 {
		fields["area"] = "must be positive"
	}
	if scope.ParameterID < 0 {
		fields["parameter"] = "must be positive"
	}
	if scope.AreaID != 0 && scope.ProgramID == 0 {
		fields["area"] = "requires program"
	}
	if scope.ParameterID != 0 && scope.AreaID == 0 {
		fields["parameter"] = "requires area"
	}
	if scope.Category != "" {
		if !scope.Category.Valid() {
			fields["category"] = "must be one of system, implementation, outcomes"
		} else if scope.ParameterID == 0 {
			fields["category"] = "requires parameter"
		}
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func (s *aggregateService) Counts(ctx context.Context, scope model.Scope) (model.StatusCounts, error) {
	if err := ValidateScope(scope); err != nil {
		return model.StatusCounts{}, err
	}
	counts, err := s.repo.CountByStatus(ctx, repository.FilterFromScope(scope))
	if err != nil {
		return model.StatusCounts{}, fmt.Errorf("count documents: %w", err)
	}
	return counts, nil
}

func (s *aggregateService) CountPending(ctx context.Context, scope model.Scope) (int, error) {
	c, err := s.Counts(ctx, scope)
	return c.Pending, err
}

func (s *aggregateService) CountApproved(ctx context.Context, scope model.Scope) (int, error) {
	c, err := s.Counts(ctx, scope)
	return c.Approved, err
}

func (s *aggregateService) Breakdown(ctx context.Context, by string, scope model.Scope) ([]BreakdownRow, error) {
	group := repository.GroupBy(by)
	if !group.Valid() {
		return nil, validationError(map[string]string{"by": "must be program, area or parameter"})
	}
	if err := ValidateScope(scope); err != nil {
		return nil, err
	}
	rows, err := s.repo.GroupCounts(ctx, group, repository.FilterFromScope(scope))
	if err != nil {
		return nil, fmt.Errorf("group counts: %w", err)
	}
	return rows, nil
}

func (s *aggregateService) Programs(ctx context.Context) ([]model.Program, error) {
	programs, err := s.taxonomy.ListPrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Navigation builds the program tree from the taxonomy and one parameter × category
// breakdown; area and program totals are rolled up from the leaves.
func (s *aggregateService) Navigation(ctx context.Context, programID int64) (*NavProgram, error) {
	if programID <= 0 {
		return nil, validationError(map[string]string{"program": "must be positive"})
	}
	prog, err := s.taxonomy.FindProgram(ctx, programID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("program not found")
		}
		return nil, fmt.Errorf("find program: %w", err)
	}
	areas, err := s.taxonomy.ListAreas(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	params, err := s.taxonomy.ListParameters(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("list parameters: %w", err)
	}
	rows, err := s.repo.GroupCounts(ctx, repository.GroupByParameter, repository.DocumentFilter{ProgramID: &programID})
	if err != nil {
		return nil, fmt.Errorf("group counts: %w", err)
	}

	type leafKey struct {
		parameterID int64
		category    model.Category
	}
	leaves := make(map[leafKey]model.StatusCounts, len(rows))
	for _, r := range rows {
		leaves[leafKey{r.ParameterID, r.Category}] = r.StatusCounts
	}

	byArea := make(map[int64][]model.Parameter, len(areas))
	for _, p := range params {
		byArea[p.AreaID] = append(byArea[p.AreaID], p)
	}

	tree := &NavProgram{Program: *prog, Areas: make([]NavArea, 0, len(areas))}
	for _, a := range areas {
		na := NavArea{Area: a, Parameters: make([]NavParameter, 0, len(byArea[a.ID]))}
		for _, p := range byArea[a.ID] {
			np := NavParameter{Parameter: p, Categories: make([]NavCategory, 0, len(model.Categories))}
			for _, c := range model.Categories {
				counts := leaves[leafKey{p.ID, c}]
				np.Categories = append(np.Categories, NavCategory{Category: c, Counts: counts})
				addCounts(&np.Counts, counts)
			}
			addCounts(&na.Counts, np.Counts)
			na.Parameters = append(na.Parameters, np)
		}
		addCounts(&tree.Counts, na.Counts)
		tree.Areas = append(tree.Areas, na)
	}
	return tree, nil
}

func addCounts(dst *model.StatusCounts, src model.StatusCounts) {
	dst.Pending += src.Pending
	dst.Approved += src.Approved
	dst.Disapproved += src.Disapproved
}
