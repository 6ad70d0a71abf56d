package models

import "time"

// Class is a cohort of students within a department. The tutor binding is
// set by the first submission from a member and reassigned when a later
// submission names a different tutor.
type Class struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	TutorID      *string   `db:"tutor_id" json:"tutor_id,omitempty"`
	Version      int       `db:"version" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
