package model

import "time"

// Attachment references one stored artifact of a document.
// URL is derived on read from Path and never persisted.
type Attachment struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}

// Document is one uploaded evidence artifact and its review state.
// File and Video are both optional but at least one is always set.
type Document struct {
	ID          string      `json:"id"`
	ProgramID   int64       `json:"program_id"`
	AreaID      int64       `json:"area_id"`
	ParameterID int64       `json:"parameter_id"`
	Category    Category    `json:"category"`
	UploaderID  string      `json:"uploader_id"`
	File        *Attachment `json:"file,omitempty"`
	Video       *Attachment `json:"video,omitempty"`
	Status      Status      `json:"status"`
	ReviewerID  *string     `json:"reviewer_id,omitempty"`
	DecidedAt   *time.Time  `json:"decided_at,omitempty"`
	Comment     *string     `json:"comment,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Scope returns the classification slot the document occupies.
func (d *Document) Scope() Scope {
	return Scope{
		ProgramID:   d.ProgramID,
		AreaID:      d.AreaID,
		ParameterID: d.ParameterID,
		Category:    d.Category,
	}
}

// Decision is the outcome a reviewer records on a pending document.
type Decision struct {
	Status     Status
	ReviewerID string
	DecidedAt  time.Time
	Comment    *string
}
