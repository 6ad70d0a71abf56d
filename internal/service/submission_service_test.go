package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psgtech/internship-undertaking-api/internal/dto"
	"github.com/psgtech/internship-undertaking-api/internal/models"
	"github.com/psgtech/internship-undertaking-api/internal/repository"
	appErrors "github.com/psgtech/internship-undertaking-api/pkg/errors"
	"github.com/psgtech/internship-undertaking-api/pkg/export"
)

type submissionStoreStub struct {
	created      []*models.Submission
	byID         map[string]*models.Submission
	detailByID   map[string]*models.SubmissionDetail
	tutorLists   map[models.SubmissionStatus][]models.SubmissionDetail
	studentLists []models.Submission
	accepted     []models.SubmissionDetail
	createErr     error
	decisionErr   error
	decisions     []decisionCall
	acceptedCalls int
}

type decisionCall struct {
	id      string
	status  models.SubmissionStatus
	remarks string
	version int
}

func (s *submissionStoreStub) Create(ctx context.Context, submission *models.Submission) error {
	if s.createErr != nil {
		return s.createErr
	}
	submission.ID = "sub-1"
	s.created = append(s.created, submission)
	return nil
}

func (s *submissionStoreStub) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	if sub, ok := s.byID[id]; ok {
		return sub, nil
	}
	return nil, sql.ErrNoRows
}

func (s *submissionStoreStub) FindDetailByID(ctx context.Context, id string) (*models.SubmissionDetail, error) {
	if detail, ok := s.detailByID[id]; ok {
		return detail, nil
	}
	return nil, sql.ErrNoRows
}

func (s *submissionStoreStub) ListByTutorAndStatus(ctx context.Context, tutorID string, status models.SubmissionStatus) ([]models.SubmissionDetail, error) {
	return s.tutorLists[status], nil
}

func (s *submissionStoreStub) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	return s.studentLists, nil
}

func (s *submissionStoreStub) ListAcceptedDetails(ctx context.Context) ([]models.SubmissionDetail, error) {
	s.acceptedCalls++
	return s.accepted, nil
}

func (s *submissionStoreStub) UpdateDecision(ctx context.Context, id string, status models.SubmissionStatus, remarks string, version int) error {
	s.decisions = append(s.decisions, decisionCall{id: id, status: status, remarks: remarks, version: version})
	return s.decisionErr
}

type studentDirectoryStub struct {
	students map[string]*models.StudentDetail
}

func (s studentDirectoryStub) FindByEmail(ctx context.Context, email string) (*models.StudentDetail, error) {
	if student, ok := s.students[email]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

type staffDirectoryStub struct {
	byEmail map[string]*models.Staff
	byID    map[string]*models.Staff
}

func (s staffDirectoryStub) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	if staff, ok := s.byEmail[email]; ok {
		return staff, nil
	}
	return nil, sql.ErrNoRows
}

func (s staffDirectoryStub) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	if staff, ok := s.byID[id]; ok {
		return staff, nil
	}
	return nil, sql.ErrNoRows
}

type classDirectoryStub struct {
	classes     map[string]*models.Class
	assignErr   error
	assignCalls []assignCall
}

type assignCall struct {
	classID string
	tutorID string
	version int
}

func (s *classDirectoryStub) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if class, ok := s.classes[id]; ok {
		copied := *class
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *classDirectoryStub) AssignTutor(ctx context.Context, classID, tutorID string, version int) error {
	s.assignCalls = append(s.assignCalls, assignCall{classID: classID, tutorID: tutorID, version: version})
	if s.assignErr != nil {
		err := s.assignErr
		s.assignErr = nil
		return err
	}
	if class, ok := s.classes[classID]; ok {
		class.TutorID = &tutorID
		class.Version++
	}
	return nil
}

type notifierStub struct {
	tutorNotices   []string
	studentNotices []string
	lastDecision   string
	lastRemarks    string
}

func (s *notifierStub) NotifyTutor(ctx context.Context, tutorEmail, studentName, rollNumber string) {
	s.tutorNotices = append(s.tutorNotices, tutorEmail)
}

func (s *notifierStub) NotifyStudent(ctx context.Context, studentEmail, studentName, decision, remarks string) {
	s.studentNotices = append(s.studentNotices, studentEmail)
	s.lastDecision = decision
	s.lastRemarks = remarks
}

type auditRecorderStub struct {
	logs []*models.AuditLog
	err  error
}

func (s *auditRecorderStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return s.err
}

type rendererStub struct {
	data export.UndertakingData
	out  []byte
	err  error
}

func (s *rendererStub) Render(data export.UndertakingData) ([]byte, error) {
	s.data = data
	return s.out, s.err
}

type csvRendererStub struct {
	dataset export.Dataset
}

func (s *csvRendererStub) Render(data export.Dataset) ([]byte, error) {
	s.dataset = data
	return []byte("csv"), nil
}

func strPtr(v string) *string { return &v }

func validCreateRequest() dto.CreateSubmissionRequest {
	return dto.CreateSubmissionRequest{
		CompanyName:     "Acme Corp",
		CompanyAddress:  "1 Industrial Estate, Coimbatore",
		Role:            "Backend Intern",
		SupervisorName:  "R. Kumar",
		SupervisorEmail: "kumar@acme.example",
		DepartmentGuide: "Dr. Priya",
		StartDate:       "2026-05-01",
		EndDate:         "2026-06-30",
		Stipend:         15000,
		TutorEmail:      "tutor@psgtech.ac.in",
	}
}

func studentClaims() *models.JWTClaims {
	return &models.JWTClaims{Email: "22z101@psgtech.ac.in", Role: models.RoleStudent}
}

func staffClaims() *models.JWTClaims {
	return &models.JWTClaims{Email: "tutor@psgtech.ac.in", Role: models.RoleStaff}
}

func newSubmissionService(repo *submissionStoreStub, students studentDirectoryStub, staff staffDirectoryStub, classes *classDirectoryStub, notifier *notifierStub, audit *auditRecorderStub) *SubmissionService {
	return NewSubmissionService(repo, students, staff, classes, notifier, audit, &rendererStub{out: []byte("%PDF-1.4")}, &csvRendererStub{}, nil, nil, nil, zap.NewNop())
}

func TestSubmissionCreateRecordsPendingAndNotifies(t *testing.T) {
	repo := &submissionStoreStub{}
	students := studentDirectoryStub{students: map[string]*models.StudentDetail{
		"22z101@psgtech.ac.in": {Student: models.Student{ID: "stu-1", Name: "Anita", RollNumber: "22Z101", ClassID: strPtr("class-1")}},
	}}
	staff := staffDirectoryStub{byEmail: map[string]*models.Staff{
		"tutor@psgtech.ac.in": {ID: "staff-1", Email: "tutor@psgtech.ac.in"},
	}}
	classes := &classDirectoryStub{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", Version: 1},
	}}
	notifier := &notifierStub{}
	audit := &auditRecorderStub{}

	svc := newSubmissionService(repo, students, staff, classes, notifier, audit)
	ack, err := svc.Create(context.Background(), validCreateRequest(), studentClaims())
	require.NoError(t, err)
	assert.Equal(t, "sub-1", ack.SubmissionID)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, models.StatusPending, created.Status)
	assert.False(t, created.Processed)
	assert.Nil(t, created.Remarks)
	assert.Equal(t, "staff-1", created.TutorID)

	require.Len(t, classes.assignCalls, 1)
	assert.Equal(t, "staff-1", classes.assignCalls[0].tutorID)
	assert.Equal(t, []string{"tutor@psgtech.ac.in"}, notifier.tutorNotices)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSubmissionCreate, audit.logs[0].Action)
}

func TestSubmissionCreateRejectsNonStudent(t *testing.T) {
	svc := newSubmissionService(&submissionStoreStub{}, studentDirectoryStub{}, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})
	_, err := svc.Create(context.Background(), validCreateRequest(), staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestSubmissionCreateUnknownTutor(t *testing.T) {
	students := studentDirectoryStub{students: map[string]*models.StudentDetail{
		"22z101@psgtech.ac.in": {Student: models.Student{ID: "stu-1"}},
	}}
	repo := &submissionStoreStub{}
	svc := newSubmissionService(repo, students, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})
	_, err := svc.Create(context.Background(), validCreateRequest(), studentClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestSubmissionCreateSkipsBindingWhenTutorAlreadySet(t *testing.T) {
	students := studentDirectoryStub{students: map[string]*models.StudentDetail{
		"22z101@psgtech.ac.in": {Student: models.Student{ID: "stu-1", ClassID: strPtr("class-1")}},
	}}
	staff := staffDirectoryStub{byEmail: map[string]*models.Staff{
		"tutor@psgtech.ac.in": {ID: "staff-1"},
	}}
	classes := &classDirectoryStub{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", TutorID: strPtr("staff-1"), Version: 3},
	}}
	svc := newSubmissionService(&submissionStoreStub{}, students, staff, classes, &notifierStub{}, &auditRecorderStub{})
	_, err := svc.Create(context.Background(), validCreateRequest(), studentClaims())
	require.NoError(t, err)
	assert.Empty(t, classes.assignCalls)
}

func TestSubmissionCreateRetriesBindingOnceOnStaleVersion(t *testing.T) {
	students := studentDirectoryStub{students: map[string]*models.StudentDetail{
		"22z101@psgtech.ac.in": {Student: models.Student{ID: "stu-1", ClassID: strPtr("class-1")}},
	}}
	staff := staffDirectoryStub{byEmail: map[string]*models.Staff{
		"tutor@psgtech.ac.in": {ID: "staff-1"},
	}}
	classes := &classDirectoryStub{
		classes:   map[string]*models.Class{"class-1": {ID: "class-1", TutorID: strPtr("staff-2"), Version: 1}},
		assignErr: repository.ErrVersionMismatch,
	}
	svc := newSubmissionService(&submissionStoreStub{}, students, staff, classes, &notifierStub{}, &auditRecorderStub{})
	_, err := svc.Create(context.Background(), validCreateRequest(), studentClaims())
	require.NoError(t, err)
	require.Len(t, classes.assignCalls, 2)
	tutorID := classes.classes["class-1"].TutorID
	require.NotNil(t, tutorID)
	assert.Equal(t, "staff-1", *tutorID)
}

func TestSubmissionDecideAcceptsAndNotifies(t *testing.T) {
	repo := &submissionStoreStub{detailByID: map[string]*models.SubmissionDetail{
		"sub-1": {
			Submission:   models.Submission{ID: "sub-1", TutorID: "staff-1", Status: models.StatusPending, Version: 1},
			StudentName:  "Anita",
			StudentEmail: "22z101@psgtech.ac.in",
			RollNumber:   "22Z101",
		},
	}}
	staff := staffDirectoryStub{byEmail: map[string]*models.Staff{
		"tutor@psgtech.ac.in": {ID: "staff-1"},
	}}
	notifier := &notifierStub{}
	audit := &auditRecorderStub{}
	svc := newSubmissionService(repo, studentDirectoryStub{}, staff, &classDirectoryStub{}, notifier, audit)

	ack, err := svc.Decide(context.Background(), "sub-1", dto.DecisionRequest{Status: "accepted", Remarks: "Good placement"}, staffClaims())
	require.NoError(t, err)
	assert.Equal(t, "Submission accepted successfully", ack.Message)

	require.Len(t, repo.decisions, 1)
	assert.Equal(t, models.StatusAccepted, repo.decisions[0].status)
	assert.Equal(t, 1, repo.decisions[0].version)
	assert.Equal(t, []string{"22z101@psgtech.ac.in"}, notifier.studentNotices)
	assert.Equal(t, "Good placement", notifier.lastRemarks)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSubmissionDecide, audit.logs[0].Action)
}

func TestSubmissionDecideForbiddenForOtherTutor(t *testing.T) {
	repo := &submissionStoreStub{detailByID: map[string]*models.SubmissionDetail{
		"sub-1": {Submission: models.Submission{ID: "sub-1", TutorID: "staff-2", Version: 1}},
	}}
	staff := staffDirectoryStub{byEmail: map[string]*models.Staff{
		"tutor@psgtech.ac.in": {ID: "staff-1"},
	}}
	svc := newSubmissionService(repo, studentDirectoryStub{}, staff, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})
	_, err := svc.Decide(context.Background(), "sub-1", dto.DecisionRequest{Status: "declined"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.decisions)
}

func TestSubmissionDecideNotFound(t *testing.T) {
	svc := newSubmissionService(&submissionStoreStub{}, studentDirectoryStub{}, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})
	_, err := svc.Decide(context.Background(), "missing", dto.DecisionRequest{Status: "accepted"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmissionDecideConflictOnStaleVersion(t *testing.T) {
	repo := &submissionStoreStub{
		detailByID: map[string]*models.SubmissionDetail{
			"sub-1": {Submission: models.Submission{ID: "sub-1", TutorID: "staff-1", Version: 1}},
		},
		decisionErr: repository.ErrVersionMismatch,
	}
	staff := staffDirectoryStub{byEmail: map[string]*models.Staff{
		"tutor@psgtech.ac.in": {ID: "staff-1"},
	}}
	notifier := &notifierStub{}
	svc := newSubmissionService(repo, studentDirectoryStub{}, staff, &classDirectoryStub{}, notifier, &auditRecorderStub{})
	_, err := svc.Decide(context.Background(), "sub-1", dto.DecisionRequest{Status: "accepted"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, notifier.studentNotices)
}

func TestSubmissionListAcceptedUsesClassSentinel(t *testing.T) {
	repo := &submissionStoreStub{tutorLists: map[models.SubmissionStatus][]models.SubmissionDetail{
		models.StatusAccepted: {
			{Submission: models.Submission{ID: "sub-1"}, StudentName: "Anita", ClassName: strPtr("22Z1")},
			{Submission: models.Submission{ID: "sub-2"}, StudentName: "Bala"},
		},
	}}
	staff := staffDirectoryStub{byEmail: map[string]*models.Staff{
		"tutor@psgtech.ac.in": {ID: "staff-1"},
	}}
	svc := newSubmissionService(repo, studentDirectoryStub{}, staff, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})

	list, err := svc.ListAccepted(context.Background(), staffClaims())
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "22Z1", list.Submissions[0].Class)
	assert.Equal(t, "Unknown", list.Submissions[1].Class)
}

func TestSubmissionListMineSentinels(t *testing.T) {
	repo := &submissionStoreStub{studentLists: []models.Submission{
		{ID: "sub-1", TutorID: "staff-1", Status: models.StatusAccepted, Remarks: strPtr("Approved")},
		{ID: "sub-2", TutorID: "staff-gone", Status: models.StatusPending},
	}}
	students := studentDirectoryStub{students: map[string]*models.StudentDetail{
		"22z101@psgtech.ac.in": {Student: models.Student{ID: "stu-1"}},
	}}
	staff := staffDirectoryStub{byID: map[string]*models.Staff{
		"staff-1": {ID: "staff-1", Email: "tutor@psgtech.ac.in"},
	}}
	svc := newSubmissionService(repo, students, staff, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})

	items, err := svc.ListMine(context.Background(), studentClaims())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "tutor@psgtech.ac.in", items[0].TutorEmail)
	assert.Equal(t, "Approved", items[0].Remarks)
	assert.Equal(t, "Unassigned", items[1].TutorEmail)
	assert.Equal(t, "No remarks", items[1].Remarks)
}

func TestAdminOverviewGroupsWithSentinels(t *testing.T) {
	repo := &submissionStoreStub{accepted: []models.SubmissionDetail{
		{Submission: models.Submission{ID: "sub-1", CompanyName: "Acme"}, StudentName: "Anita", DepartmentName: strPtr("Computer Science"), ClassName: strPtr("22Z1")},
		{Submission: models.Submission{ID: "sub-2", CompanyName: "Globex"}, StudentName: "Bala", DepartmentName: strPtr("Computer Science"), ClassName: strPtr("22Z1")},
		{Submission: models.Submission{ID: "sub-3", CompanyName: "Initech"}, StudentName: "Chitra"},
	}}
	svc := newSubmissionService(repo, studentDirectoryStub{}, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})

	overview, cacheHit, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, overview["Computer Science"]["22Z1"], 2)
	require.Len(t, overview["Unknown Department"]["Unknown Class"], 1)
	assert.Equal(t, "Initech", overview["Unknown Department"]["Unknown Class"][0].CompanyName)
}

type cacheRepoStub struct {
	entries map[string][]byte
	sets    int
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.entries == nil {
		s.entries = map[string][]byte{}
	}
	s.entries[key] = raw
	s.sets++
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	delete(s.entries, pattern)
	return nil
}

func TestAdminOverviewCacheHitSkipsRepository(t *testing.T) {
	cached, err := json.Marshal(dto.Overview{
		"Computer Science": {"22Z1": {{StudentName: "Anita", CompanyName: "Acme"}}},
	})
	require.NoError(t, err)
	cacheRepo := &cacheRepoStub{entries: map[string][]byte{"overview:accepted": cached}}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)

	repo := &submissionStoreStub{}
	svc := NewSubmissionService(repo, studentDirectoryStub{}, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{}, &rendererStub{}, &csvRendererStub{}, cacheSvc, nil, nil, zap.NewNop())

	overview, cacheHit, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, 0, repo.acceptedCalls)
	require.Len(t, overview["Computer Science"]["22Z1"], 1)
}

func TestOverviewCSVOrdersRows(t *testing.T) {
	repo := &submissionStoreStub{accepted: []models.SubmissionDetail{
		{Submission: models.Submission{ID: "sub-1", CompanyName: "Globex"}, StudentName: "Bala", DepartmentName: strPtr("Mechanical"), ClassName: strPtr("22M1")},
		{Submission: models.Submission{ID: "sub-2", CompanyName: "Acme"}, StudentName: "Anita", DepartmentName: strPtr("Computer Science"), ClassName: strPtr("22Z1")},
	}}
	csv := &csvRendererStub{}
	svc := NewSubmissionService(repo, studentDirectoryStub{}, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{}, &rendererStub{}, csv, nil, nil, nil, zap.NewNop())

	data, err := svc.OverviewCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("csv"), data)
	require.Len(t, csv.dataset.Rows, 2)
	assert.Equal(t, "Computer Science", csv.dataset.Rows[0]["Department"])
	assert.Equal(t, "Mechanical", csv.dataset.Rows[1]["Department"])
}

func TestRenderUndertakingMissingSubmission(t *testing.T) {
	svc := newSubmissionService(&submissionStoreStub{}, studentDirectoryStub{}, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{})
	_, _, err := svc.RenderUndertaking(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRenderUndertakingBuildsFilenameFromRollNumber(t *testing.T) {
	renderer := &rendererStub{out: []byte("%PDF-1.4")}
	repo := &submissionStoreStub{detailByID: map[string]*models.SubmissionDetail{
		"sub-1": {
			Submission:  models.Submission{ID: "sub-1", CompanyName: "Acme"},
			StudentName: "Anita",
			RollNumber:  "22Z101",
		},
	}}
	svc := NewSubmissionService(repo, studentDirectoryStub{}, staffDirectoryStub{}, &classDirectoryStub{}, &notifierStub{}, &auditRecorderStub{}, renderer, &csvRendererStub{}, nil, nil, nil, zap.NewNop())

	filename, pdf, err := svc.RenderUndertaking(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Undertaking_22Z101.pdf", filename)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "Anita", renderer.data.StudentName)
}
