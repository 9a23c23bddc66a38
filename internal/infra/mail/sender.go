package mail

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var htmlBody = template.Must(template.New("outreach").Parse(
	`<div style="font-family:Arial,sans-serif;font-size:14px;line-height:1.5">` +
		`{{range .Body}}<p>{{.}}</p>{{end}}` +
		`{{if .Signature}}<p style="color:#555">{{range .Signature}}{{.}}<br>{{end}}</p>{{end}}` +
		`</div>`))

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// Configured reports whether an SMTP host was provided.
func (s *EmailSender) Configured() bool {
	return s != nil && s.Host != ""
}

// SendOutreach sends e as a plain text email with an HTML alternative. The
// signature is appended to both parts.
func (s *EmailSender) SendOutreach(e OutreachEmail) error {
	if !s.Configured() {
		return errors.New("smtp not configured")
	}
	if e.To == "" {
		return errors.New("recipient address is empty")
	}

	text := e.Body
	if e.Signature != "" {
		text = strings.TrimRight(text, "\n") + "\n\n--\n" + e.Signature
	}

	html, err := renderHTML(e)
	if err != nil {
		return err
	}

	from := e.FromEmail
	if from == "" {
		from = s.User
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, e.FromName)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func renderHTML(e OutreachEmail) (string, error) {
	var html bytes.Buffer
	err := htmlBody.Execute(&html, struct {
		Body      []string
		Signature []string
	}{
		Body:      paragraphs(e.Body),
		Signature: lines(e.Signature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return html.String(), nil
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(strings.TrimSpace(s), "\n")
}
