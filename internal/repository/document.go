package repository

import (
	"context"

	"accredapi/internal/model"
)

// DocumentFilter narrows document queries. Nil fields are ignored; set fields AND-compose.
type DocumentFilter struct {
	ProgramID   *int64
	AreaID      *int64
	ParameterID *int64
	Category    *model.Category
	Status      *model.Status
	UploaderID  *string
}

// FilterFromScope converts a hierarchy scope into a filter; zero fields stay unset.
func FilterFromScope(s model.Scope) DocumentFilter {
	var f DocumentFilter
	if s.ProgramID != 0 {
		f.ProgramID = &s.ProgramID
	}
	if s.AreaID != 0 {
		f.AreaID = &s.AreaID
	}
	if s.ParameterID != 0 {
		f.ParameterID = &s.ParameterID
	}
	if s.Category != "" {
		c := s.Category
		f.Category = &c
	}
	return f
}

// GroupBy selects the hierarchy level of a grouped count.
type GroupBy string

const (
	GroupByProgram   GroupBy = "program"
	GroupByArea      GroupBy = "area"
	GroupByParameter GroupBy = "parameter"
)

// Valid reports whether g is a known grouping.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByProgram, GroupByArea, GroupByParameter:
		return true
	}
	return false
}

// GroupCount is one row of a grouped count. Keys below the grouping level are zero.
// Grouping by parameter also splits rows by category.
type GroupCount struct {
	ProgramID   int64          `json:"program_id"`
	AreaID      int64          `json:"area_id,omitempty"`
	ParameterID int64          `json:"parameter_id,omitempty"`
	Category    model.Category `json:"category,omitempty"`
	model.StatusCounts
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of matching documents, newest first, and the total match count.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// Decide applies d only while the row is still pending. It returns sql.ErrNoRows when
	// no pending row with that id exists, whether it is missing or already decided.
	Decide(ctx context.Context, id string, d model.Decision) (*model.Document, error)

	// DeletePending removes the row only while it is pending and returns the removed row.
	// It returns sql.ErrNoRows when no pending row with that id exists.
	DeletePending(ctx context.Context, id string) (*model.Document, error)

	// CountByStatus returns per-status totals of matching documents.
	CountByStatus(ctx context.Context, f DocumentFilter) (model.StatusCounts, error)

	// GroupCounts returns per-status totals grouped at the requested level.
	GroupCounts(ctx context.Context, by GroupBy, f DocumentFilter) ([]GroupCount, error)
}
