package model

// Program is an academic program under accreditation review. Seeded, never edited.
type Program struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Area is one of the fixed evaluation areas of a program.
type Area struct {
	ID        int64  `json:"id"`
	ProgramID int64  `json:"program_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}

// Parameter is a fixed sub-criterion within an area.
type Parameter struct {
	ID        int64  `json:"id"`
	ProgramID int64  `json:"program_id"`
	AreaID    int64  `json:"area_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}
