package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/mail"
)

const followUpAfter = 3 * 24 * time.Hour

// OutreachInput overrides the drafted email. Empty fields fall back to the
// template, then to the lead's drafted outreach.
type OutreachInput struct {
	TemplateID string `json:"templateId,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body,omitempty"`
}

type SendOutreachUseCase struct {
	Workspace *Workspace
	Templates *TemplateUseCase
	Mailer    OutreachMailer
	Metrics   Metrics
	Logger    *slog.Logger
}

func NewSendOutreachUseCase(ws *Workspace, templates *TemplateUseCase, mailer OutreachMailer, metrics Metrics) *SendOutreachUseCase {
	return &SendOutreachUseCase{
		Workspace: ws,
		Templates: templates,
		Mailer:    mailer,
		Metrics:   metricsOrNop(metrics),
		Logger:    slog.Default(),
	}
}

// Execute emails the lead from the profile's sender identity and moves a
// NEW lead to CONTACTED with a follow-up three days out.
func (uc *SendOutreachUseCase) Execute(ctx context.Context, leadID string, in OutreachInput) (*entity.Lead, error) {
	ws := uc.Workspace
	l, err := ws.Lead(leadID)
	if err != nil {
		return nil, err
	}
	if uc.Mailer == nil || !uc.Mailer.Configured() {
		return nil, &DomainError{Code: CodeMailDisabled, Message: "outgoing mail is not configured"}
	}
	if ws.Offline() {
		return nil, invalidInput("emails cannot be sent in offline mode")
	}
	if l.EmailGuess == "" {
		return nil, invalidInput("lead has no email address")
	}
	if l.EmailStatus == entity.EmailInvalid {
		return nil, invalidInput("lead email address is invalid")
	}

	subject, body, err := uc.compose(ctx, l, in)
	if err != nil {
		return nil, err
	}

	profile := ws.profileOrDefault()
	err = uc.Mailer.SendOutreach(mail.OutreachEmail{
		FromName:  profile.Name,
		FromEmail: profile.Email,
		To:        l.EmailGuess,
		Subject:   subject,
		Body:      body,
		Signature: profile.EmailSignature,
	})
	if err != nil {
		uc.Metrics.IntegrationError("smtp")
		uc.Logger.Error("failed to send outreach email", "lead_id", leadID, "error", err)
		ws.Notify("Email could not be sent: "+err.Error(), entity.NotifyError)
		return nil, &TechnicalError{Code: "SMTP_FAILED", Message: "failed to send email", Err: err}
	}

	now := ws.now()
	outreach := l.Outreach
	outreach.Subject = subject
	outreach.Email = body
	outreach.LastContactedAt = now.UnixMilli()
	outreach.NextFollowUpAt = now.Add(followUpAfter).UnixMilli()

	patch := entity.LeadPatch{Outreach: &outreach}
	if l.Status == entity.StatusNew {
		patch.Status = entity.Ptr(entity.StatusContacted)
	}

	updated, err := ws.updateLead(ctx, leadID, patch, "Outreach email sent")
	if err != nil {
		return nil, err
	}
	uc.Logger.Info("outreach email sent", "lead_id", leadID, "to", l.EmailGuess)
	ws.Notify("Email sent to "+l.Name, entity.NotifySuccess)
	return updated, nil
}

func (uc *SendOutreachUseCase) compose(ctx context.Context, l *entity.Lead, in OutreachInput) (subject, body string, err error) {
	if in.TemplateID != "" && uc.Templates != nil {
		t, err := uc.Templates.Find(ctx, in.TemplateID)
		if err != nil {
			return "", "", err
		}
		subject, body = t.Render(l)
	}

	if s := strings.TrimSpace(in.Subject); s != "" {
		subject = s
	}
	if strings.TrimSpace(in.Body) != "" {
		body = in.Body
	}
	if subject == "" {
		subject = l.Outreach.Subject
	}
	if subject == "" && len(l.Outreach.SubjectVariants) > 0 {
		subject = l.Outreach.SubjectVariants[0]
	}
	if body == "" {
		body = l.Outreach.Email
	}

	if strings.TrimSpace(body) == "" {
		return "", "", invalidInput("email body is empty")
	}
	if subject == "" {
		subject = "Quick idea for " + l.Company
	}
	return subject, body, nil
}
