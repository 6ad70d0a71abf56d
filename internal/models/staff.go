package models

import "time"

// Staff is a tutor record. Staff accounts are provisioned externally and
// immutable from this system's perspective.
type Staff struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
