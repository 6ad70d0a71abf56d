package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psgtech/internship-undertaking-api/pkg/jobs"
	"github.com/psgtech/internship-undertaking-api/pkg/mailer"
)

const jobTypeMail = "mail"

// NotificationService formats and dispatches workflow emails. Dispatch is
// fire-and-forget: delivery never gates the operation that triggered it.
// When a queue is attached, messages are drained by its workers; otherwise
// they are sent inline, still best-effort.
type NotificationService struct {
	mailer mailer.Mailer
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(m mailer.Mailer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{mailer: m, logger: logger}
}

// AttachQueue routes subsequent messages through the background queue.
func (s *NotificationService) AttachQueue(q *jobs.Queue) {
	s.queue = q
}

// Deliver is the queue handler sending one queued message.
func (s *NotificationService) Deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		s.logger.Error("unexpected mail job payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.mailer.Send(ctx, msg)
}

// NotifyTutor informs a tutor that a student submitted internship details.
func (s *NotificationService) NotifyTutor(ctx context.Context, tutorEmail, studentName, rollNumber string) {
	msg := mailer.Message{
		ToEmail: tutorEmail,
		Subject: "New internship submission awaiting review",
		Body: fmt.Sprintf(
			"Dear Tutor,\n\n%s (%s) has submitted internship details for your approval.\nPlease review the submission in the internship portal.\n",
			studentName, rollNumber),
	}
	s.dispatch(ctx, msg)
}

// NotifyStudent informs a student of the tutor's decision.
func (s *NotificationService) NotifyStudent(ctx context.Context, studentEmail, studentName, decision, remarks string) {
	if remarks == "" {
		remarks = "No remarks provided"
	}
	msg := mailer.Message{
		ToName:  studentName,
		ToEmail: studentEmail,
		Subject: fmt.Sprintf("Your internship submission was %s", decision),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour internship submission has been %s.\nRemarks: %s\n",
			studentName, decision, remarks),
	}
	s.dispatch(ctx, msg)
}

func (s *NotificationService) dispatch(ctx context.Context, msg mailer.Message) {
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{
			ID:      uuid.NewString(),
			Type:    jobTypeMail,
			Payload: msg,
		})
		if err == nil {
			return
		}
		s.logger.Warn("failed to enqueue notification, sending inline", zap.Error(err))
	}
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send notification", zap.String("to", msg.ToEmail), zap.Error(err))
	}
}
