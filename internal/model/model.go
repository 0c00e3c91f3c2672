// Package model contains the domain types shared by every layer.
// Types here carry no persistence tags; repositories map them to rows.
package model

import "strings"

// Category classifies the evidentiary role of a document within a parameter.
type Category string

const (
	CategorySystem         Category = "system"
	CategoryImplementation Category = "implementation"
	CategoryOutcomes       Category = "outcomes"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySystem, CategoryImplementation, CategoryOutcomes}

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySystem, CategoryImplementation, CategoryOutcomes:
		return true
	}
	return false
}

// Status is the review state of a document.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusDisapproved Status = "disapproved"
)

// ParseStatus normalizes s and reports whether it names a known status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDisapproved:
		return true
	}
	return false
}

// Terminal reports whether no further review transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDisapproved
}

// CanTransition reports whether a review decision may move a document from s to next.
// Only pending documents move, and only into a terminal state.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// StatusCounts holds per-status document totals for a scope.
type StatusCounts struct {
	Pending     int `json:"pending"`
	Approved    int `json:"approved"`
	Disapproved int `json:"disapproved"`
}

// Add increments the bucket for st by n.
func (c *StatusCounts) Add(st Status, n int) {
	switch st {
	case StatusPending:
		c.Pending += n
	case StatusApproved:
		c.Approved += n
	case StatusDisapproved:
		c.Disapproved += n
	}
}

// Total is the number of documents across all statuses.
func (c StatusCounts) Total() int {
	return c.Pending + c.Approved + c.Disapproved
}
