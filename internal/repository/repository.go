// Package repository provides typed access to the datastore, one adapter per
// entity kind.
package repository

import "github.com/google/uuid"

// Repository is the common contract every entity repository implements.
// Find reports absence with ok=false; Update and Delete report it with
// model.ErrNotFound.
type Repository[T any] interface {
	Find(id uuid.UUID) (T, bool)
	FindAll() []T
	Create(entity T) (T, error)
	Update(entity T) (T, error)
	Delete(id uuid.UUID) error
}

// filter returns the elements of items matching keep.
func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
