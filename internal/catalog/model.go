package catalog

import "pharmacy-be/internal/entity"

// ProductStatus is stored as text ("active", "disable"). Negotiation does
// not filter on it.
type ProductStatus string

type Product struct {
	ID     uint
	Name   string
	Status ProductStatus
	entity.Timestamps
}

type Store struct {
	ID      uint
	Name    string
	OwnerID uint
	entity.Timestamps
}
