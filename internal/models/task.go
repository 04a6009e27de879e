package models

import "time"

// Task is a task row joined with its owner's display fields.
type Task struct {
	ID        int64
	UserID    int64
	Body      string
	Username  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
