package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/psgtech/internship-undertaking-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByEmail fetches a student with resolved department and class names.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.StudentDetail, error) {
	const query = `SELECT s.id, s.email, s.name, s.roll_number, s.year, s.department_id, s.class_id, s.created_at, s.updated_at,
        d.name AS department_name, c.name AS class_name
        FROM students s
        LEFT JOIN departments d ON d.id = s.department_id
        LEFT JOIN classes c ON c.id = s.class_id
        WHERE LOWER(s.email) = LOWER($1)`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, email); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, email, name, roll_number, year, department_id, class_id, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// BindDepartment sets the student's department reference.
func (r *StudentRepository) BindDepartment(ctx context.Context, studentID, departmentID string) error {
	const query = `UPDATE students SET department_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, departmentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("bind department: %w", err)
	}
	return nil
}

// BindClass sets the student's class reference.
func (r *StudentRepository) BindClass(ctx context.Context, studentID, classID string) error {
	const query = `UPDATE students SET class_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, classID, time.Now().UTC()); err != nil {
		return fmt.Errorf("bind class: %w", err)
	}
	return nil
}

// UnbindClass clears the student's class reference.
func (r *StudentRepository) UnbindClass(ctx context.Context, studentID string) error {
	const query = `UPDATE students SET class_id = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("unbind class: %w", err)
	}
	return nil
}

// UpdateProfile persists the student's editable profile fields.
func (r *StudentRepository) UpdateProfile(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET roll_number = :roll_number, year = :year, department_id = :department_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	return nil
}
