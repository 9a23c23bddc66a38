package mail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSendOutreach(t *testing.T) {
	d := &captureDialer{}
	s := NewEmailSender("smtp.local", 587, "bot@acme.io", "secret")
	s.dialer = d

	err := s.SendOutreach(OutreachEmail{
		FromName:  "Ana",
		FromEmail: "ana@acme.io",
		To:        "bo@globex.com",
		Subject:   "Idea for Globex",
		Body:      "Hi Bo,\n\nQuick idea <b>for you</b>.",
		Signature: "Ana\nAcme",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"bo@globex.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Idea for Globex"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{`"Ana" <ana@acme.io>`}, m.GetHeader("From"))
}

func TestRenderHTMLEscapesBody(t *testing.T) {
	html, err := renderHTML(OutreachEmail{Body: "Hi Bo,\n\nQuick idea <b>for you</b>.", Signature: "Ana\nAcme"})
	require.NoError(t, err)
	assert.Contains(t, html, "<p>Hi Bo,</p>")
	assert.Contains(t, html, "&lt;b&gt;for you&lt;/b&gt;")
	assert.Contains(t, html, "Ana<br>Acme<br>")
}

func TestSendOutreach_Errors(t *testing.T) {
	var unset *EmailSender
	assert.Error(t, unset.SendOutreach(OutreachEmail{To: "x@y.z"}))

	s := NewEmailSender("smtp.local", 587, "", "")
	assert.ErrorContains(t, s.SendOutreach(OutreachEmail{}), "recipient")

	s.dialer = &captureDialer{err: errors.New("connection refused")}
	assert.ErrorContains(t, s.SendOutreach(OutreachEmail{To: "x@y.z"}), "SMTP")
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"a\nb", "c"}, paragraphs("a\nb\r\n\r\nc\n\n\n"))
}
