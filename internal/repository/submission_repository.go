package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/psgtech/internship-undertaking-api/internal/models"
)

const submissionColumns = `sub.id, sub.student_id, sub.tutor_id, sub.company_name, sub.company_address, sub.role,
        sub.supervisor_name, sub.supervisor_email, sub.department_guide, sub.start_date, sub.end_date, sub.stipend,
        sub.description, sub.pending_redo_courses, sub.pending_ra_courses, sub.pending_current_courses,
        sub.status, sub.processed, sub.remarks, sub.version, sub.created_at, sub.updated_at`

const submissionDetailColumns = submissionColumns + `,
        s.name AS student_name, s.email AS student_email, s.roll_number, c.name AS class_name, d.name AS department_name`

const submissionDetailJoins = `FROM submissions sub
        JOIN students s ON s.id = sub.student_id
        LEFT JOIN classes c ON c.id = s.class_id
        LEFT JOIN departments d ON d.id = c.department_id`

// SubmissionRepository manages persistence for internship submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs a SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission record.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = now
	const query = `INSERT INTO submissions (id, student_id, tutor_id, company_name, company_address, role,
        supervisor_name, supervisor_email, department_guide, start_date, end_date, stipend,
        description, pending_redo_courses, pending_ra_courses, pending_current_courses,
        status, processed, remarks, version, created_at, updated_at)
        VALUES (:id, :student_id, :tutor_id, :company_name, :company_address, :role,
        :supervisor_name, :supervisor_email, :department_guide, :start_date, :end_date, :stipend,
        :description, :pending_redo_courses, :pending_ra_courses, :pending_current_courses,
        :status, :processed, :remarks, 1, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	submission.Version = 1
	return nil
}

// FindByID fetches a submission by ID.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions sub WHERE sub.id = $1`, submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindDetailByID fetches a submission joined with its student, class and
// department for rendering.
func (r *SubmissionRepository) FindDetailByID(ctx context.Context, id string) (*models.SubmissionDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE sub.id = $1`, submissionDetailColumns, submissionDetailJoins)
	var detail models.SubmissionDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByTutorAndStatus returns a tutor's submissions in a given status with
// student projections, newest first.
func (r *SubmissionRepository) ListByTutorAndStatus(ctx context.Context, tutorID string, status models.SubmissionStatus) ([]models.SubmissionDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE sub.tutor_id = $1 AND sub.status = $2 ORDER BY sub.created_at DESC`, submissionDetailColumns, submissionDetailJoins)
	var items []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &items, query, tutorID, status); err != nil {
		return nil, fmt.Errorf("list submissions by tutor: %w", err)
	}
	return items, nil
}

// ListByStudent returns all of a student's submissions, newest first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions sub WHERE sub.student_id = $1 ORDER BY sub.created_at DESC`, submissionColumns)
	var items []models.Submission
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list submissions by student: %w", err)
	}
	return items, nil
}

// ListAcceptedDetails returns every accepted submission with its student's
// resolved department/class chain for the admin overview.
func (r *SubmissionRepository) ListAcceptedDetails(ctx context.Context) ([]models.SubmissionDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE sub.status = $1 ORDER BY sub.created_at ASC`, submissionDetailColumns, submissionDetailJoins)
	var items []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &items, query, models.StatusAccepted); err != nil {
		return nil, fmt.Errorf("list accepted submissions: %w", err)
	}
	return items, nil
}

// UpdateDecision writes the tutor's verdict. The update is guarded by the
// version read alongside the submission so concurrent deciders surface as
// ErrVersionMismatch rather than overwriting each other.
func (r *SubmissionRepository) UpdateDecision(ctx context.Context, id string, status models.SubmissionStatus, remarks string, version int) error {
	const query = `UPDATE submissions SET status = $2, processed = TRUE, remarks = $3, version = version + 1, updated_at = $5
        WHERE id = $1 AND version = $4`
	res, err := r.db.ExecContext(ctx, query, id, status, remarks, version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update submission decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission decision: %w", err)
	}
	if affected == 0 {
		return ErrVersionMismatch
	}
	return nil
}
