package dto

// ProfileResponse describes the student's own profile. Department and Class
// stay null until a department is selected and a cohort class resolved.
type ProfileResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	RollNumber string  `json:"rollNumber"`
	Year       int     `json:"year"`
	Department *string `json:"department"`
	Class      *string `json:"class"`
	Message    string  `json:"message,omitempty"`
}

// SelectDepartmentRequest binds a student to a department.
type SelectDepartmentRequest struct {
	DepartmentID string `json:"departmentId" validate:"required"`
}

// SelectDepartmentAck confirms the selection.
type SelectDepartmentAck struct {
	Message    string `json:"message"`
	Department string `json:"department"`
}

// UpdateProfileRequest mutates the student's own editable fields.
type UpdateProfileRequest struct {
	RollNumber   *string `json:"rollNumber"`
	Year         *int    `json:"year"`
	DepartmentID *string `json:"departmentId"`
}
