package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/psgtech/internship-undertaking-api/internal/models"
)

// ErrVersionMismatch signals that a version-guarded write found a stale row.
var ErrVersionMismatch = errors.New("row version mismatch")

// ClassRepository manages persistence for cohort classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, department_id, tutor_id, version, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByNameAndDepartment fetches a class by its cohort name within a department.
func (r *ClassRepository) FindByNameAndDepartment(ctx context.Context, name, departmentID string) (*models.Class, error) {
	const query = `SELECT id, name, department_id, tutor_id, version, created_at, updated_at FROM classes WHERE name = $1 AND department_id = $2`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, name, departmentID); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now
	const query = `INSERT INTO classes (id, name, department_id, tutor_id, version, created_at, updated_at)
        VALUES (:id, :name, :department_id, :tutor_id, 1, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	class.Version = 1
	return nil
}

// AssignTutor overwrites the class's tutor binding. The write is guarded by
// the version read alongside the class; a concurrent reassignment makes the
// guard miss and the caller gets ErrVersionMismatch instead of a silent
// lost update.
func (r *ClassRepository) AssignTutor(ctx context.Context, classID, tutorID string, version int) error {
	const query = `UPDATE classes SET tutor_id = $2, version = version + 1, updated_at = $4 WHERE id = $1 AND version = $3`
	res, err := r.db.ExecContext(ctx, query, classID, tutorID, version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("assign class tutor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign class tutor: %w", err)
	}
	if affected == 0 {
		return ErrVersionMismatch
	}
	return nil
}
