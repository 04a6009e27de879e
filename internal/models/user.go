package models

import "time"

const (
	RoleBasic = "basic"
	RoleAdmin = "admin"
)

type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func IsValidRole(role string) bool {
	return role == RoleBasic || role == RoleAdmin
}
