package mail

// OutreachEmail is one prospecting email.
type OutreachEmail struct {
	FromName  string
	FromEmail string
	To        string
	Subject   string
	Body      string
	Signature string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string

	dialer dialer
}
