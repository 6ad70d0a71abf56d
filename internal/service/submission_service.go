package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/psgtech/internship-undertaking-api/internal/dto"
	"github.com/psgtech/internship-undertaking-api/internal/models"
	"github.com/psgtech/internship-undertaking-api/internal/repository"
	appErrors "github.com/psgtech/internship-undertaking-api/pkg/errors"
	"github.com/psgtech/internship-undertaking-api/pkg/export"
)

const (
	submissionResource = "submission"
	overviewCacheKey   = "overview:accepted"

	unknownDepartment = "Unknown Department"
	unknownClass      = "Unknown Class"
)

type submissionStore interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	FindDetailByID(ctx context.Context, id string) (*models.SubmissionDetail, error)
	ListByTutorAndStatus(ctx context.Context, tutorID string, status models.SubmissionStatus) ([]models.SubmissionDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	ListAcceptedDetails(ctx context.Context) ([]models.SubmissionDetail, error)
	UpdateDecision(ctx context.Context, id string, status models.SubmissionStatus, remarks string, version int) error
}

type studentDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.StudentDetail, error)
}

type staffDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

type classDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	AssignTutor(ctx context.Context, classID, tutorID string, version int) error
}

type workflowNotifier interface {
	NotifyTutor(ctx context.Context, tutorEmail, studentName, rollNumber string)
	NotifyStudent(ctx context.Context, studentEmail, studentName, decision, remarks string)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type undertakingRenderer interface {
	Render(data export.UndertakingData) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// SubmissionService is the submission lifecycle core: it creates submissions
// with the tutor/class binding side effect, enforces role and ownership on
// decisions, and serves the tutor, student and admin read paths.
type SubmissionService struct {
	repo      submissionStore
	students  studentDirectory
	staff     staffDirectory
	classes   classDirectory
	notifier  workflowNotifier
	audit     auditLogger
	renderer  undertakingRenderer
	csv       csvRenderer
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubmissionService builds a SubmissionService with sane defaults.
func NewSubmissionService(
	repo submissionStore,
	students studentDirectory,
	staff staffDirectory,
	classes classDirectory,
	notifier workflowNotifier,
	audit auditLogger,
	renderer undertakingRenderer,
	csv csvRenderer,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		repo:      repo,
		students:  students,
		staff:     staff,
		classes:   classes,
		notifier:  notifier,
		audit:     audit,
		renderer:  renderer,
		csv:       csv,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Create records a new submission for the authenticated student. The named
// tutor must exist in staff records; if the student belongs to a class whose
// tutor is unset or different, the class is rebound to the resolved tutor.
func (s *SubmissionService) Create(ctx context.Context, req dto.CreateSubmissionRequest, claims *models.JWTClaims) (*dto.CreateSubmissionAck, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only students can submit")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	student, err := s.students.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	tutor, err := s.staff.FindByEmail(ctx, req.TutorEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "tutor email does not exist in staff records")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}

	if student.ClassID != nil {
		s.bindClassTutor(ctx, *student.ClassID, tutor.ID)
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	submission := &models.Submission{
		StudentID:             student.ID,
		TutorID:               tutor.ID,
		CompanyName:           req.CompanyName,
		CompanyAddress:        req.CompanyAddress,
		Role:                  req.Role,
		SupervisorName:        req.SupervisorName,
		SupervisorEmail:       req.SupervisorEmail,
		DepartmentGuide:       req.DepartmentGuide,
		StartDate:             startDate,
		EndDate:               endDate,
		Stipend:               req.Stipend,
		Description:           optional(req.Description),
		PendingRedoCourses:    optional(req.PendingRedoCourses),
		PendingRACourses:      optional(req.PendingRACourses),
		PendingCurrentCourses: optional(req.PendingCurrentCourses),
		Status:                models.StatusPending,
		Processed:             false,
		Remarks:               nil,
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
	}

	if s.notifier != nil {
		s.notifier.NotifyTutor(ctx, tutor.Email, student.Name, student.RollNumber)
	}
	s.emitAudit(ctx, &claims.Email, models.AuditActionSubmissionCreate, submission.ID, nil, map[string]interface{}{
		"companyName": submission.CompanyName,
		"tutorId":     submission.TutorID,
		"status":      submission.Status,
	})

	return &dto.CreateSubmissionAck{
		Message:      "Submission recorded successfully and tutor assigned to class",
		SubmissionID: submission.ID,
	}, nil
}

// bindClassTutor applies the class/tutor binding side effect. A stale
// version means another submission raced the binding; the class is re-read
// and rebound once. Binding failures never fail the submission.
func (s *SubmissionService) bindClassTutor(ctx context.Context, classID, tutorID string) {
	for attempt := 0; attempt < 2; attempt++ {
		class, err := s.classes.FindByID(ctx, classID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("failed to load class for tutor binding", zap.String("class_id", classID), zap.Error(err))
			}
			return
		}
		if class.TutorID != nil && *class.TutorID == tutorID {
			return
		}
		err = s.classes.AssignTutor(ctx, class.ID, tutorID, class.Version)
		if err == nil {
			return
		}
		if errors.Is(err, repository.ErrVersionMismatch) {
			continue
		}
		s.logger.Warn("failed to assign class tutor", zap.String("class_id", classID), zap.Error(err))
		return
	}
	s.logger.Warn("class tutor binding lost the version race twice", zap.String("class_id", classID))
}

// ListPending returns the tutor's pending queue.
func (s *SubmissionService) ListPending(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSubmissionItem, error) {
	tutor, err := s.resolveTutor(ctx, claims, "only tutors can view pending submissions")
	if err != nil {
		return nil, err
	}

	details, err := s.repo.ListByTutorAndStatus(ctx, tutor.ID, models.StatusPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending submissions")
	}

	items := make([]dto.PendingSubmissionItem, 0, len(details))
	for _, d := range details {
		items = append(items, dto.PendingSubmissionItem{
			ID:          d.ID,
			StudentName: d.StudentName,
			RollNumber:  d.RollNumber,
			CompanyName: d.CompanyName,
			Role:        d.Role,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
			Stipend:     d.Stipend,
		})
	}
	return items, nil
}

// ListAccepted returns the tutor's accepted submissions with class names and
// a count.
func (s *SubmissionService) ListAccepted(ctx context.Context, claims *models.JWTClaims) (*dto.AcceptedSubmissionList, error) {
	tutor, err := s.resolveTutor(ctx, claims, "only tutors can access accepted submissions")
	if err != nil {
		return nil, err
	}

	details, err := s.repo.ListByTutorAndStatus(ctx, tutor.ID, models.StatusAccepted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list accepted submissions")
	}

	items := make([]dto.AcceptedSubmissionItem, 0, len(details))
	for _, d := range details {
		className := "Unknown"
		if d.ClassName != nil {
			className = *d.ClassName
		}
		items = append(items, dto.AcceptedSubmissionItem{
			ID:          d.ID,
			StudentName: d.StudentName,
			RollNumber:  d.RollNumber,
			Class:       className,
			CompanyName: d.CompanyName,
			Role:        d.Role,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
			Stipend:     d.Stipend,
		})
	}
	return &dto.AcceptedSubmissionList{Count: len(items), Submissions: items}, nil
}

// Decide commits the assigned tutor's verdict on a submission. The write is
// version-guarded: a concurrent decision surfaces as Conflict. A processed
// submission may still be re-decided; the guard rejects racing writers, not
// corrections.
func (s *SubmissionService) Decide(ctx context.Context, submissionID string, req dto.DecisionRequest, claims *models.JWTClaims) (*dto.DecisionAck, error) {
	if claims == nil || claims.Role != models.RoleStaff {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only tutors can update decisions")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	detail, err := s.repo.FindDetailByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}

	staff, err := s.staff.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only the assigned tutor can update this submission")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}
	if detail.TutorID != staff.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the assigned tutor can update this submission")
	}

	status := models.SubmissionStatus(req.Status)
	if err := s.repo.UpdateDecision(ctx, submissionID, status, req.Remarks, detail.Version); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "submission was updated concurrently, retry with fresh state")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission")
	}

	if s.notifier != nil {
		s.notifier.NotifyStudent(ctx, detail.StudentEmail, detail.StudentName, req.Status, req.Remarks)
	}
	s.emitAudit(ctx, &claims.Email, models.AuditActionSubmissionDecide, submissionID,
		map[string]interface{}{"status": detail.Status, "processed": detail.Processed},
		map[string]interface{}{"status": status, "processed": true, "remarks": req.Remarks},
	)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, overviewCacheKey); err != nil {
			s.logger.Warn("failed to invalidate overview cache", zap.Error(err))
		}
	}

	return &dto.DecisionAck{
		Message:      "Submission " + req.Status + " successfully",
		SubmissionID: submissionID,
	}, nil
}

// ListMine returns the authenticated student's submissions enriched with the
// tutor's email.
func (s *SubmissionService) ListMine(ctx context.Context, claims *models.JWTClaims) ([]dto.MySubmissionItem, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only students can view their submissions")
	}

	student, err := s.students.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	submissions, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}

	items := make([]dto.MySubmissionItem, 0, len(submissions))
	for _, sub := range submissions {
		tutorEmail := "Unassigned"
		if tutor, err := s.staff.FindByID(ctx, sub.TutorID); err == nil {
			tutorEmail = tutor.Email
		}
		remarks := "No remarks"
		if sub.Remarks != nil && *sub.Remarks != "" {
			remarks = *sub.Remarks
		}
		items = append(items, dto.MySubmissionItem{
			ID:          sub.ID,
			CompanyName: sub.CompanyName,
			Role:        sub.Role,
			StartDate:   sub.StartDate,
			EndDate:     sub.EndDate,
			TutorEmail:  tutorEmail,
			Status:      string(sub.Status),
			Remarks:     remarks,
			Stipend:     sub.Stipend,
		})
	}
	return items, nil
}

// AdminOverview groups accepted submissions by department then class. The
// second return value reports whether the payload came from cache.
func (s *SubmissionService) AdminOverview(ctx context.Context) (dto.Overview, bool, error) {
	var cached dto.Overview
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, overviewCacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	details, err := s.repo.ListAcceptedDetails(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build overview")
	}

	overview := dto.Overview{}
	for _, d := range details {
		dept := unknownDepartment
		if d.DepartmentName != nil {
			dept = *d.DepartmentName
		}
		class := unknownClass
		if d.ClassName != nil {
			class = *d.ClassName
		}
		if overview[dept] == nil {
			overview[dept] = map[string][]dto.OverviewEntry{}
		}
		overview[dept][class] = append(overview[dept][class], dto.OverviewEntry{
			StudentName: d.StudentName,
			CompanyName: d.CompanyName,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, overviewCacheKey, overview, 0); err != nil {
			s.logger.Warn("failed to cache overview", zap.Error(err))
		}
	}
	return overview, false, nil
}

// OverviewCSV renders the accepted overview as CSV, one row per submission.
func (s *SubmissionService) OverviewCSV(ctx context.Context) ([]byte, error) {
	overview, _, err := s.AdminOverview(ctx)
	if err != nil {
		return nil, err
	}

	headers := []string{"Department", "Class", "Student", "Company"}
	var rows []map[string]string

	departments := make([]string, 0, len(overview))
	for dept := range overview {
		departments = append(departments, dept)
	}
	sort.Strings(departments)
	for _, dept := range departments {
		classes := make([]string, 0, len(overview[dept]))
		for class := range overview[dept] {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		for _, class := range classes {
			for _, entry := range overview[dept][class] {
				rows = append(rows, map[string]string{
					"Department": dept,
					"Class":      class,
					"Student":    entry.StudentName,
					"Company":    entry.CompanyName,
				})
			}
		}
	}

	data, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render overview csv")
	}
	return data, nil
}

// RenderUndertaking produces the two-page PDF for a submission and the
// download filename.
func (s *SubmissionService) RenderUndertaking(ctx context.Context, submissionID string) (string, []byte, error) {
	detail, err := s.repo.FindDetailByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, appErrors.Clone(appErrors.ErrValidation, "submission not accepted yet")
		}
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}

	data := export.UndertakingData{
		StudentName:           detail.StudentName,
		RollNumber:            detail.RollNumber,
		DepartmentName:        deref(detail.DepartmentName),
		CompanyName:           detail.CompanyName,
		CompanyAddress:        detail.CompanyAddress,
		SupervisorName:        detail.SupervisorName,
		SupervisorEmail:       detail.SupervisorEmail,
		DepartmentGuide:       detail.DepartmentGuide,
		StartDate:             detail.StartDate,
		EndDate:               detail.EndDate,
		Stipend:               detail.Stipend,
		PendingRedoCourses:    deref(detail.PendingRedoCourses),
		PendingRACourses:      deref(detail.PendingRACourses),
		PendingCurrentCourses: deref(detail.PendingCurrentCourses),
		Remarks:               deref(detail.Remarks),
		GeneratedAt:           time.Now(),
	}

	start := time.Now()
	pdf, err := s.renderer.Render(data)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render undertaking")
	}
	if s.metrics != nil {
		s.metrics.ObservePDFRender(time.Since(start))
	}

	return "Undertaking_" + detail.RollNumber + ".pdf", pdf, nil
}

func (s *SubmissionService) resolveTutor(ctx context.Context, claims *models.JWTClaims, denial string) (*models.Staff, error) {
	if claims == nil || claims.Role != models.RoleStaff {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, denial)
	}
	tutor, err := s.staff.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}
	return tutor, nil
}

func (s *SubmissionService) emitAudit(ctx context.Context, actorEmail *string, action, resourceID string, oldValues, newValues map[string]interface{}) {
	if s.audit == nil {
		return
	}
	var oldPayload, newPayload []byte
	if oldValues != nil {
		oldPayload, _ = json.Marshal(oldValues)
	}
	if newValues != nil {
		newPayload, _ = json.Marshal(newValues)
	}
	log := &models.AuditLog{
		ActorEmail: actorEmail,
		Action:     action,
		Resource:   submissionResource,
		ResourceID: &resourceID,
		OldValues:  oldPayload,
		NewValues:  newPayload,
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record submission audit", zap.Error(err))
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
