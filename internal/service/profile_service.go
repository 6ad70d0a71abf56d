package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/psgtech/internship-undertaking-api/internal/dto"
	"github.com/psgtech/internship-undertaking-api/internal/models"
	appErrors "github.com/psgtech/internship-undertaking-api/pkg/errors"
)

// CohortResolver derives a cohort class name from a student email.
type CohortResolver func(email string) string

// DefaultCohortResolver uses the institutional convention: the first four
// characters of the email, uppercased (e.g. "22z101@..." -> "22Z1").
func DefaultCohortResolver(email string) string {
	if len(email) < 4 {
		return strings.ToUpper(email)
	}
	return strings.ToUpper(email[:4])
}

type profileStudentStore interface {
	FindByEmail(ctx context.Context, email string) (*models.StudentDetail, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	BindDepartment(ctx context.Context, studentID, departmentID string) error
	BindClass(ctx context.Context, studentID, classID string) error
	UnbindClass(ctx context.Context, studentID string) error
	UpdateProfile(ctx context.Context, student *models.Student) error
}

type profileClassStore interface {
	FindByNameAndDepartment(ctx context.Context, name, departmentID string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
}

type departmentStore interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// ProfileService serves the student's own profile: department selection,
// lazy cohort class resolution and profile edits.
type ProfileService struct {
	students    profileStudentStore
	classes     profileClassStore
	departments departmentStore
	resolver    CohortResolver
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProfileService builds a ProfileService. A nil resolver falls back to
// DefaultCohortResolver.
func NewProfileService(
	students profileStudentStore,
	classes profileClassStore,
	departments departmentStore,
	resolver CohortResolver,
	validate *validator.Validate,
	logger *zap.Logger,
) *ProfileService {
	if resolver == nil {
		resolver = DefaultCohortResolver
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		students:    students,
		classes:     classes,
		departments: departments,
		resolver:    resolver,
		validator:   validate,
		logger:      logger,
	}
}

// ListDepartments returns all departments for the selection screen.
func (s *ProfileService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// GetProfile returns the student's profile. When a department is bound but
// no class is, the cohort class is resolved from the email, created on first
// sight within the department, and bound to the student.
func (s *ProfileService) GetProfile(ctx context.Context, claims *models.JWTClaims) (*dto.ProfileResponse, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only students can view their profile")
	}

	student, err := s.students.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	profile := &dto.ProfileResponse{
		ID:         student.ID,
		Email:      student.Email,
		Name:       student.Name,
		RollNumber: student.RollNumber,
		Year:       student.Year,
		Department: student.DepartmentName,
		Class:      student.ClassName,
	}

	if student.DepartmentID == nil {
		profile.Message = "Please select your department to complete your profile"
		return profile, nil
	}

	if student.ClassID == nil {
		className, err := s.ensureCohortClass(ctx, student)
		if err != nil {
			s.logger.Warn("failed to resolve cohort class", zap.String("student_id", student.ID), zap.Error(err))
		} else {
			profile.Class = &className
		}
	}
	return profile, nil
}

// ensureCohortClass finds or creates the student's cohort class inside their
// department and binds the student to it.
func (s *ProfileService) ensureCohortClass(ctx context.Context, student *models.StudentDetail) (string, error) {
	name := s.resolver(student.Email)

	class, err := s.classes.FindByNameAndDepartment(ctx, name, *student.DepartmentID)
	if errors.Is(err, sql.ErrNoRows) {
		class = &models.Class{Name: name, DepartmentID: *student.DepartmentID}
		if createErr := s.classes.Create(ctx, class); createErr != nil {
			return "", createErr
		}
	} else if err != nil {
		return "", err
	}

	if err := s.students.BindClass(ctx, student.ID, class.ID); err != nil {
		return "", err
	}
	return class.Name, nil
}

// SelectDepartment binds the student to a department. The cohort class is
// resolved lazily on the next profile read.
func (s *ProfileService) SelectDepartment(ctx context.Context, req dto.SelectDepartmentRequest, claims *models.JWTClaims) (*dto.SelectDepartmentAck, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only students can select a department")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department selection")
	}

	student, err := s.students.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid department id")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	if err := s.students.BindDepartment(ctx, student.ID, department.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to select department")
	}

	return &dto.SelectDepartmentAck{
		Message:    "Department selected successfully",
		Department: department.Name,
	}, nil
}

// UpdateProfile applies the student's editable fields. Absent fields keep
// their current values; a department change drops the class binding so the
// cohort class is re-resolved inside the new department.
func (s *ProfileService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, claims *models.JWTClaims) (*dto.ProfileResponse, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only students can update their profile")
	}

	detail, err := s.students.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	student := detail.Student
	if req.RollNumber != nil {
		student.RollNumber = *req.RollNumber
	}
	if req.Year != nil {
		student.Year = *req.Year
	}
	if req.DepartmentID != nil && (student.DepartmentID == nil || *student.DepartmentID != *req.DepartmentID) {
		if _, err := s.departments.FindByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "invalid department id")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
		}
		student.DepartmentID = req.DepartmentID
		student.ClassID = nil
		if err := s.students.UnbindClass(ctx, student.ID); err != nil {
			s.logger.Warn("failed to clear class binding", zap.String("student_id", student.ID), zap.Error(err))
		}
	}

	if err := s.students.UpdateProfile(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	return s.GetProfile(ctx, claims)
}
