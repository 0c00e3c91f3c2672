// Package memory holds map-backed repositories. They follow the postgres
// implementations' guarded semantics and are used by tests and local runs.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"accredapi/internal/model"
	"accredapi/internal/repository"
)

// DocumentMemory is a DocumentRepository held in a map, guarded by a single lock.
type DocumentMemory struct {
	mutex sync.RWMutex
	table map[string]*model.Document
}

// NewDocumentMemory returns an empty repository.
func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{table: make(map[string]*model.Document)}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

func clone(d *model.Document) *model.Document {
	c := *d
	if d.File != nil {
		f := *d.File
		c.File = &f
	}
	if d.Video != nil {
		v := *d.Video
		c.Video = &v
	}
	if d.ReviewerID != nil {
		r := *d.ReviewerID
		c.ReviewerID = &r
	}
	if d.DecidedAt != nil {
		t := *d.DecidedAt
		c.DecidedAt = &t
	}
	if d.Comment != nil {
		s := *d.Comment
		c.Comment = &s
	}
	return &c
}

func matches(d *model.Document, f repository.DocumentFilter) bool {
	switch {
	case f.ProgramID != nil && d.ProgramID != *f.ProgramID:
		return false
	case f.AreaID != nil && d.AreaID != *f.AreaID:
		return false
	case f.ParameterID != nil && d.ParameterID != *f.ParameterID:
		return false
	case f.Category != nil && d.Category != *f.Category:
		return false
	case f.Status != nil && d.Status != *f.Status:
		return false
	case f.UploaderID != nil && d.UploaderID != *f.UploaderID:
		return false
	}
	return true
}

func (r *DocumentMemory) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.table[doc.ID]; ok {
		return nil, fmt.Errorf("document %s already exists", doc.ID)
	}
	r.table[doc.ID] = clone(doc)
	return clone(doc), nil
}

func (r *DocumentMemory) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if d, ok := r.table[id]; ok {
		return clone(d), nil
	}
	return nil, sql.ErrNoRows
}

func (r *DocumentMemory) List(_ context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	matched := make([]*model.Document, 0, len(r.table))
	for _, d := range r.table {
		if matches(d, f) {
			matched = append(matched, d)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	items := make([]model.Document, 0)
	for i := pq.Offset; i < len(matched) && (pq.Limit <= 0 || len(items) < pq.Limit); i++ {
		if i < 0 {
			continue
		}
		items = append(items, *clone(matched[i]))
	}
	return &repository.PageResult[model.Document]{Items: items, Total: len(matched)}, nil
}

func (r *DocumentMemory) Decide(_ context.Context, id string, d model.Decision) (*model.Document, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, ok := r.table[id]
	if !ok || doc.Status != model.StatusPending {
		return nil, sql.ErrNoRows
	}
	reviewer := d.ReviewerID
	at := d.DecidedAt
	doc.Status = d.Status
	doc.ReviewerID = &reviewer
	doc.DecidedAt = &at
	doc.Comment = nil
	if d.Comment != nil {
		c := *d.Comment
		doc.Comment = &c
	}
	return clone(doc), nil
}

func (r *DocumentMemory) DeletePending(_ context.Context, id string) (*model.Document, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, ok := r.table[id]
	if !ok || doc.Status != model.StatusPending {
		return nil, sql.ErrNoRows
	}
	delete(r.table, id)
	return doc, nil
}

func (r *DocumentMemory) CountByStatus(_ context.Context, f repository.DocumentFilter) (model.StatusCounts, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var counts model.StatusCounts
	for _, d := range r.table {
		if matches(d, f) {
			counts.Add(d.Status, 1)
		}
	}
	return counts, nil
}

func (r *DocumentMemory) GroupCounts(_ context.Context, by repository.GroupBy, f repository.DocumentFilter) ([]repository.GroupCount, error) {
	if !by.Valid() {
		return nil, fmt.Errorf("unsupported grouping %q", by)
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	groups := make(map[repository.GroupCount]*model.StatusCounts)
	for _, d := range r.table {
		if !matches(d, f) {
			continue
		}
		key := repository.GroupCount{ProgramID: d.ProgramID}
		if by != repository.GroupByProgram {
			key.AreaID = d.AreaID
		}
		if by == repository.GroupByParameter {
			key.ParameterID = d.ParameterID
			key.Category = d.Category
		}
		c, ok := groups[key]
		if !ok {
			c = &model.StatusCounts{}
			groups[key] = c
		}
		c.Add(d.Status, 1)
	}

	out := make([]repository.GroupCount, 0, len(groups))
	for key, c := range groups {
		key.StatusCounts = *c
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProgramID != b.ProgramID {
			return a.ProgramID < b.ProgramID
		}
		if a.AreaID != b.AreaID {
			return a.AreaID < b.AreaID
		}
		if a.ParameterID != b.ParameterID {
			return a.ParameterID < b.ParameterID
		}
		return a.Category < b.Category
	})
	return out, nil
}
