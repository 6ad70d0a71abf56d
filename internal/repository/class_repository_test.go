package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRepositoryFindByNameAndDepartment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "department_id", "tutor_id", "version", "created_at", "updated_at"}).
		AddRow("class-1", "22Z1", "dept-1", nil, 1, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name = $1 AND department_id = $2")).
		WithArgs("22Z1", "dept-1").
		WillReturnRows(rows)

	class, err := repo.FindByNameAndDepartment(context.Background(), "22Z1", "dept-1")
	require.NoError(t, err)
	assert.Equal(t, "class-1", class.ID)
	assert.Nil(t, class.TutorID)
}

func TestClassRepositoryFindByNameAndDepartmentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name = $1 AND department_id = $2")).
		WithArgs("22Z9", "dept-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByNameAndDepartment(context.Background(), "22Z9", "dept-1")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestClassRepositoryAssignTutor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET tutor_id = $2, version = version + 1")).
		WithArgs("class-1", "staff-1", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AssignTutor(context.Background(), "class-1", "staff-1", 2)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryAssignTutorStaleVersion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes")).
		WithArgs("class-1", "staff-1", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AssignTutor(context.Background(), "class-1", "staff-1", 1)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}
