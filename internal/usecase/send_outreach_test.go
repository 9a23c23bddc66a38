package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/mail"
	"github.com/xavierca1/prospector/internal/infra/persistence"
)

func newOutreach(t *testing.T, mailer OutreachMailer) (*SendOutreachUseCase, *Workspace, *persistence.Store) {
	t.Helper()
	ws, store := newTestWorkspace(t)
	templates := NewTemplateUseCase(ws, store.Templates(), newEnrich(ws, nil, nil))
	uc := NewSendOutreachUseCase(ws, templates, mailer, nil)
	uc.Logger = quietLogger()
	return uc, ws, store
}

func TestSendOutreach_ContactsNewLead(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Configured").Return(true)
	mailer.On("SendOutreach", mock.MatchedBy(func(e mail.OutreachEmail) bool {
		return e.To == "contact@acme.com" && e.FromEmail == "ana@acme.io" && e.Subject == "Hello Ana" && e.Body == "Body"
	})).Return(nil).Once()

	uc, ws, _ := newOutreach(t, mailer)
	l := seedLead(t, ws, "Ana", "acme", 70)

	updated, err := uc.Execute(context.Background(), l.ID, OutreachInput{Subject: "Hello Ana", Body: "Body"})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusContacted, updated.Status)
	assert.Equal(t, fixedNow.UnixMilli(), updated.Outreach.LastContactedAt)
	assert.Equal(t, fixedNow.Add(followUpAfter).UnixMilli(), updated.Outreach.NextFollowUpAt)
	last := updated.History[len(updated.History)-1]
	assert.Equal(t, "Outreach email sent", last.Action)
	assert.True(t, hasNotification(ws, entity.NotifySuccess, "Email sent to Ana"))
	mailer.AssertExpectations(t)
}

func TestSendOutreach_KeepsLaterStatus(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Configured").Return(true)
	mailer.On("SendOutreach", mock.Anything).Return(nil)

	uc, ws, _ := newOutreach(t, mailer)
	l := seedLead(t, ws, "Ana", "acme", 70)
	_, err := ws.UpdateLead(context.Background(), l.ID, entity.LeadPatch{Status: entity.Ptr(entity.StatusQualified)})
	require.NoError(t, err)

	updated, err := uc.Execute(context.Background(), l.ID, OutreachInput{Body: "Follow up"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQualified, updated.Status)
	assert.Equal(t, "Quick idea for acme", updated.Outreach.Subject)
}

func TestSendOutreach_RendersTemplate(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Configured").Return(true)
	mailer.On("SendOutreach", mock.MatchedBy(func(e mail.OutreachEmail) bool {
		return e.Subject == "Idea for acme" && e.Body == "Hi Ana"
	})).Return(nil).Once()

	uc, ws, _ := newOutreach(t, mailer)
	l := seedLead(t, ws, "Ana", "acme", 70)
	tpl, err := uc.Templates.Create(context.Background(), "intro", "Idea for {{company}}", "Hi {{name}}")
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), l.ID, OutreachInput{TemplateID: tpl.ID})
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSendOutreach_Refusals(t *testing.T) {
	t.Run("mail not configured", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("Configured").Return(false)
		uc, ws, _ := newOutreach(t, mailer)
		l := seedLead(t, ws, "Ana", "acme", 70)

		_, err := uc.Execute(context.Background(), l.ID, OutreachInput{Body: "x"})
		var de *DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, CodeMailDisabled, de.Code)
	})

	t.Run("invalid address", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("Configured").Return(true)
		uc, ws, _ := newOutreach(t, mailer)
		l := seedLead(t, ws, "Ana", "acme", 70)
		_, err := ws.UpdateLead(context.Background(), l.ID, entity.LeadPatch{EmailStatus: entity.Ptr(entity.EmailInvalid)})
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), l.ID, OutreachInput{Body: "x"})
		assert.True(t, IsDomainError(err))
		mailer.AssertNotCalled(t, "SendOutreach", mock.Anything)
	})

	t.Run("empty body", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("Configured").Return(true)
		uc, ws, _ := newOutreach(t, mailer)
		l := seedLead(t, ws, "Ana", "acme", 70)

		_, err := uc.Execute(context.Background(), l.ID, OutreachInput{Subject: "only a subject"})
		assert.True(t, IsDomainError(err))
	})
}

func TestSendOutreach_SMTPFailure(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Configured").Return(true)
	mailer.On("SendOutreach", mock.Anything).Return(errors.New("535 auth failed"))

	uc, ws, _ := newOutreach(t, mailer)
	l := seedLead(t, ws, "Ana", "acme", 70)

	_, err := uc.Execute(context.Background(), l.ID, OutreachInput{Body: "x"})
	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))

	stored, _ := ws.Lead(l.ID)
	assert.Equal(t, entity.StatusNew, stored.Status)
}
