package models

import "time"

// Student is a provisioned student account.
type Student struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	RollNumber   string    `db:"roll_number" json:"rollNumber"`
	Year         int       `db:"year" json:"year"`
	DepartmentID *string   `db:"department_id" json:"department_id,omitempty"`
	ClassID      *string   `db:"class_id" json:"class_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail extends Student with resolved department and class names.
type StudentDetail struct {
	Student
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
	ClassName      *string `db:"class_name" json:"class_name,omitempty"`
}
