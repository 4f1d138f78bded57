package user

import (
	"pharmacy-be/internal/entity"

	"github.com/lib/pq"
)

type User struct {
	ID       uint
	Email    string
	Password string
	Roles    pq.StringArray
	entity.Timestamps
}
