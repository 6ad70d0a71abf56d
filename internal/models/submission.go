package models

import "time"

// SubmissionStatus enumerates lifecycle states.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusAccepted SubmissionStatus = "accepted"
	StatusDeclined SubmissionStatus = "declined"
)

// Valid reports whether the status is a decidable outcome.
func (s SubmissionStatus) ValidDecision() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Submission is the central entity of the workflow. All internship fields
// are immutable after creation; only status, processed and remarks change,
// and only through the assigned tutor's decision.
type Submission struct {
	ID                    string           `db:"id" json:"id"`
	StudentID             string           `db:"student_id" json:"student_id"`
	TutorID               string           `db:"tutor_id" json:"tutor_id"`
	CompanyName           string           `db:"company_name" json:"company_name"`
	CompanyAddress        string           `db:"company_address" json:"company_address"`
	Role                  string           `db:"role" json:"role"`
	SupervisorName        string           `db:"supervisor_name" json:"supervisor_name"`
	SupervisorEmail       string           `db:"supervisor_email" json:"supervisor_email"`
	DepartmentGuide       string           `db:"department_guide" json:"department_guide"`
	StartDate             time.Time        `db:"start_date" json:"start_date"`
	EndDate               time.Time        `db:"end_date" json:"end_date"`
	Stipend               float64          `db:"stipend" json:"stipend"`
	Description           *string          `db:"description" json:"description,omitempty"`
	PendingRedoCourses    *string          `db:"pending_redo_courses" json:"pending_redo_courses,omitempty"`
	PendingRACourses      *string          `db:"pending_ra_courses" json:"pending_ra_courses,omitempty"`
	PendingCurrentCourses *string          `db:"pending_current_courses" json:"pending_current_courses,omitempty"`
	Status                SubmissionStatus `db:"status" json:"status"`
	Processed             bool             `db:"processed" json:"processed"`
	Remarks               *string          `db:"remarks" json:"remarks,omitempty"`
	Version               int              `db:"version" json:"-"`
	CreatedAt             time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time        `db:"updated_at" json:"updated_at"`
}

// SubmissionDetail joins a submission with its student's identity fields and
// resolved department/class names for projections and the PDF form.
type SubmissionDetail struct {
	Submission
	StudentName    string  `db:"student_name" json:"student_name"`
	StudentEmail   string  `db:"student_email" json:"student_email"`
	RollNumber     string  `db:"roll_number" json:"roll_number"`
	ClassName      *string `db:"class_name" json:"class_name,omitempty"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}
