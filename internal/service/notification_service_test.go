package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psgtech/internship-undertaking-api/pkg/mailer"
)

type mailerStub struct {
	sent []mailer.Message
	err  error
}

func (m *mailerStub) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestNotifyStudentDefaultsRemarks(t *testing.T) {
	out := &mailerStub{}
	svc := NewNotificationService(out, zap.NewNop())

	svc.NotifyStudent(context.Background(), "22z101@psgtech.ac.in", "Anita", "accepted", "")

	require.Len(t, out.sent, 1)
	assert.Contains(t, out.sent[0].Body, "No remarks provided")
	assert.Contains(t, out.sent[0].Subject, "accepted")
	assert.Equal(t, "22z101@psgtech.ac.in", out.sent[0].ToEmail)
}

func TestNotifyTutorIncludesStudentIdentity(t *testing.T) {
	out := &mailerStub{}
	svc := NewNotificationService(out, zap.NewNop())

	svc.NotifyTutor(context.Background(), "tutor@psgtech.ac.in", "Anita", "22Z101")

	require.Len(t, out.sent, 1)
	assert.Contains(t, out.sent[0].Body, "Anita")
	assert.Contains(t, out.sent[0].Body, "22Z101")
}

func TestNotifySwallowsDeliveryFailure(t *testing.T) {
	out := &mailerStub{err: errors.New("smtp down")}
	svc := NewNotificationService(out, zap.NewNop())

	// Must not panic or surface the error to the caller.
	svc.NotifyStudent(context.Background(), "22z101@psgtech.ac.in", "Anita", "declined", "resubmit")
	require.Len(t, out.sent, 1)
}
