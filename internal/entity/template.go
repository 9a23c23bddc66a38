package entity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateVariables are the placeholders Render understands.
var TemplateVariables = []string{"{{name}}", "{{company}}", "{{role}}", "{{industry}}", "{{city}}"}

type EmailTemplate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Variables []string `json:"variables,omitempty"`
}

func NewEmailTemplate(name, subject, body string) (*EmailTemplate, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if subject == "" && body == "" {
		return nil, errors.New("subject or body is required")
	}
	t := &EmailTemplate{
		ID:      uuid.New().String(),
		Name:    name,
		Subject: subject,
		Body:    body,
	}
	for _, v := range TemplateVariables {
		if strings.Contains(subject, v) || strings.Contains(body, v) {
			t.Variables = append(t.Variables, v)
		}
	}
	return t, nil
}

// Render fills the template placeholders from a lead.
func (t *EmailTemplate) Render(l *Lead) (subject, body string) {
	r := strings.NewReplacer(
		"{{name}}", l.Name,
		"{{company}}", l.Company,
		"{{role}}", l.Role,
		"{{industry}}", l.Industry,
		"{{city}}", l.Location,
	)
	return r.Replace(t.Subject), r.Replace(t.Body)
}

type TemplateRepository interface {
	GetAll(ctx context.Context) []EmailTemplate
	SaveAll(ctx context.Context, templates []EmailTemplate)
	Add(ctx context.Context, template EmailTemplate)
	Delete(ctx context.Context, id string)
}
