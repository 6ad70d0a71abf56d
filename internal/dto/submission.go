package dto

import "time"

// CreateSubmissionRequest is the student-facing creation payload. Dates are
// ISO (YYYY-MM-DD) strings.
type CreateSubmissionRequest struct {
	CompanyName           string  `json:"company_name" validate:"required"`
	CompanyAddress        string  `json:"company_address" validate:"required"`
	Role                  string  `json:"role" validate:"required"`
	SupervisorName        string  `json:"supervisor_name" validate:"required"`
	SupervisorEmail       string  `json:"supervisor_email" validate:"required"`
	DepartmentGuide       string  `json:"department_guide" validate:"required"`
	StartDate             string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate               string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Stipend               float64 `json:"stipend"`
	Description           string  `json:"description"`
	PendingRedoCourses    string  `json:"pending_redo_courses"`
	PendingRACourses      string  `json:"pending_ra_courses"`
	PendingCurrentCourses string  `json:"pending_current_courses"`
	TutorEmail            string  `json:"tutor_email" validate:"required,email"`
}

// CreateSubmissionAck acknowledges a recorded submission.
type CreateSubmissionAck struct {
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

// DecisionRequest carries a tutor's verdict.
type DecisionRequest struct {
	Status  string `json:"status" validate:"required,oneof=accepted declined"`
	Remarks string `json:"remarks"`
}

// DecisionAck acknowledges a committed decision.
type DecisionAck struct {
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

// PendingSubmissionItem is the tutor's pending-queue projection.
type PendingSubmissionItem struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	RollNumber  string    `json:"rollNumber"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Stipend     float64   `json:"stipend"`
}

// AcceptedSubmissionItem adds the resolved class name to the projection.
type AcceptedSubmissionItem struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	RollNumber  string    `json:"rollNumber"`
	Class       string    `json:"class"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Stipend     float64   `json:"stipend"`
}

// AcceptedSubmissionList wraps the accepted projection with its count.
type AcceptedSubmissionList struct {
	Count       int                      `json:"count"`
	Submissions []AcceptedSubmissionItem `json:"submissions"`
}

// MySubmissionItem is the student's own-submission view enriched with the
// tutor's email.
type MySubmissionItem struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TutorEmail  string    `json:"tutorEmail"`
	Status      string    `json:"status"`
	Remarks     string    `json:"remarks"`
	Stipend     float64   `json:"stipend"`
}
