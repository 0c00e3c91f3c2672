// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory). Missing rows are reported as
// sql.ErrNoRows by every implementation so callers check a single sentinel.
package repository

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
