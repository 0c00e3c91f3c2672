package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"accredapi/internal/config"
	"accredapi/internal/database/seed"
	"accredapi/internal/model"
	"accredapi/internal/repository"
)

// TaxonomyMemory expands program seeds into the area and parameter templates in memory.
type TaxonomyMemory struct {
	mutex      sync.RWMutex
	programs   map[int64]model.Program
	areas      map[int64]model.Area
	parameters map[int64]model.Parameter
}

// NewTaxonomyMemory expands the seed template for programs, assigning ids in
// creation order the way a fresh database would.
func NewTaxonomyMemory(programs []config.ProgramSeed) *TaxonomyMemory {
	t := &TaxonomyMemory{
		programs:   make(map[int64]model.Program),
		areas:      make(map[int64]model.Area),
		parameters: make(map[int64]model.Parameter),
	}
	var areaSeq, paramSeq int64
	for i, p := range programs {
		prog := model.Program{ID: int64(i + 1), Code: p.Code, Name: p.Name}
		t.programs[prog.ID] = prog
		for _, a := range seed.Areas {
			areaSeq++
			area := model.Area{ID: areaSeq, ProgramID: prog.ID, Code: a.Code, Name: a.Name}
			t.areas[area.ID] = area
			for _, pt := range a.Parameters {
				paramSeq++
				t.parameters[paramSeq] = model.Parameter{
					ID: paramSeq, ProgramID: prog.ID, AreaID: area.ID, Code: pt.Code, Name: pt.Name,
				}
			}
		}
	}
	return t
}

var _ repository.TaxonomyRepository = (*TaxonomyMemory)(nil)

func (t *TaxonomyMemory) ListPrograms(_ context.Context) ([]model.Program, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	out := make([]model.Program, 0, len(t.programs))
	for _, p := range t.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (t *TaxonomyMemory) FindProgram(_ context.Context, id int64) (*model.Program, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if p, ok := t.programs[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (t *TaxonomyMemory) ListAreas(_ context.Context, programID int64) ([]model.Area, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	out := make([]model.Area, 0)
	for _, a := range t.areas {
		if a.ProgramID == programID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *TaxonomyMemory) ListParameters(_ context.Context, programID int64) ([]model.Parameter, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	out := make([]model.Parameter, 0)
	for _, p := range t.parameters {
		if p.ProgramID == programID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AreaID != out[j].AreaID {
			return out[i].AreaID < out[j].AreaID
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (t *TaxonomyMemory) ResolveParameter(_ context.Context, programID, areaID, parameterID int64) (*model.Parameter, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	p, ok := t.parameters[parameterID]
	if !ok || p.AreaID != areaID || p.ProgramID != programID {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

// Lookup finds ids by codes, e.g. ("BSIT", "II", "A"). It is a test and tooling helper.
func (t *TaxonomyMemory) Lookup(programCode, areaCode, parameterCode string) (model.Parameter, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, p := range t.parameters {
		if p.Code != parameterCode {
			continue
		}
		area := t.areas[p.AreaID]
		prog := t.programs[p.ProgramID]
		if area.Code == areaCode && prog.Code == programCode {
			return p, true
		}
	}
	return model.Parameter{}, false
}
