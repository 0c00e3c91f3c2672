package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusDisapproved}
	for _, from := range all {
		for _, to := range all {
			want := from == StatusPending && (to == StatusApproved || to == StatusDisapproved)
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, StatusPending.CanTransition(Status("archived")))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" System ")
	assert.True(t, ok)
	assert.Equal(t, CategorySystem, c)

	_, ok = ParseCategory("evidence")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("DISAPPROVED")
	assert.True(t, ok)
	assert.Equal(t, StatusDisapproved, st)

	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestStatusCounts_Add(t *testing.T) {
	var c StatusCounts
	c.Add(StatusPending, 2)
	c.Add(StatusApproved, 1)
	c.Add(StatusDisapproved, 3)
	c.Add(Status("bogus"), 10)

	assert.Equal(t, StatusCounts{Pending: 2, Approved: 1, Disapproved: 3}, c)
	assert.Equal(t, 6, c.Total())
}
