package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psgtech/internship-undertaking-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestSubmissionRepositoryCreateAssignsIDAndVersion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submissions")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	submission := &models.Submission{
		StudentID:       "stu-1",
		TutorID:         "staff-1",
		CompanyName:     "Acme",
		CompanyAddress:  "Coimbatore",
		Role:            "Intern",
		SupervisorName:  "Kumar",
		SupervisorEmail: "kumar@acme.example",
		DepartmentGuide: "Dr. Priya",
		StartDate:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:          models.StatusPending,
	}
	err := repo.Create(context.Background(), submission)
	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.Equal(t, 1, submission.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryFindDetailByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "tutor_id", "company_name", "company_address", "role",
		"supervisor_name", "supervisor_email", "department_guide", "start_date", "end_date", "stipend",
		"description", "pending_redo_courses", "pending_ra_courses", "pending_current_courses",
		"status", "processed", "remarks", "version", "created_at", "updated_at",
		"student_name", "student_email", "roll_number", "class_name", "department_name",
	}).AddRow(
		"sub-1", "stu-1", "staff-1", "Acme", "Coimbatore", "Intern",
		"Kumar", "kumar@acme.example", "Dr. Priya", now, now, 15000.0,
		nil, nil, nil, nil,
		"pending", false, nil, 1, now, now,
		"Anita", "22z101@psgtech.ac.in", "22Z101", "22Z1", "Computer Science",
	)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN students s ON s.id = sub.student_id")).
		WithArgs("sub-1").
		WillReturnRows(rows)

	detail, err := repo.FindDetailByID(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Anita", detail.StudentName)
	assert.Equal(t, "22Z101", detail.RollNumber)
	require.NotNil(t, detail.ClassName)
	assert.Equal(t, "22Z1", *detail.ClassName)
	assert.Equal(t, 1, detail.Version)
}

func TestSubmissionRepositoryListByTutorAndStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "tutor_id", "company_name", "company_address", "role",
		"supervisor_name", "supervisor_email", "department_guide", "start_date", "end_date", "stipend",
		"description", "pending_redo_courses", "pending_ra_courses", "pending_current_courses",
		"status", "processed", "remarks", "version", "created_at", "updated_at",
		"student_name", "student_email", "roll_number", "class_name", "department_name",
	}).AddRow(
		"sub-1", "stu-1", "staff-1", "Acme", "Coimbatore", "Intern",
		"Kumar", "kumar@acme.example", "Dr. Priya", now, now, 0.0,
		nil, nil, nil, nil,
		"pending", false, nil, 1, now, now,
		"Anita", "22z101@psgtech.ac.in", "22Z101", nil, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE sub.tutor_id = $1 AND sub.status = $2 ORDER BY sub.created_at DESC")).
		WithArgs("staff-1", models.StatusPending).
		WillReturnRows(rows)

	items, err := repo.ListByTutorAndStatus(context.Background(), "staff-1", models.StatusPending)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sub-1", items[0].ID)
	assert.Nil(t, items[0].ClassName)
}

func TestSubmissionRepositoryUpdateDecision(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions SET status = $2, processed = TRUE, remarks = $3, version = version + 1")).
		WithArgs("sub-1", models.StatusAccepted, "Looks good", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateDecision(context.Background(), "sub-1", models.StatusAccepted, "Looks good", 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryUpdateDecisionStaleVersion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions")).
		WithArgs("sub-1", models.StatusDeclined, "", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDecision(context.Background(), "sub-1", models.StatusDeclined, "", 1)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}
