// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"hr-intake-bot/internal/model"

	"gopkg.in/gomail.v2"
)

// IEmailService notifies HR about a finished submission. A service built
// from incomplete SMTP settings reports Enabled() == false and every send
// is a silent no-op rather than an error.
type IEmailService interface {
	Enabled() bool
	SendCandidate(record *model.CandidateRecord, attachmentPath string) error
}

type emailService struct {
	dialer     *gomail.Dialer
	from       string
	to         string
	attachFile bool
}

func NewEmailService(host string, port int, username, password, from, to string, attachFile bool) IEmailService {
	if host == "" || username == "" || password == "" || to == "" {
		return &emailService{} // disabled sink
	}
	if from == "" {
		from = username
	}
	return &emailService{
		dialer:     gomail.NewDialer(host, port, username, password),
		from:       from,
		to:         to,
		attachFile: attachFile,
	}
}

func (s *emailService) Enabled() bool {
	return s.dialer != nil
}

func (s *emailService) SendCandidate(record *model.CandidateRecord, attachmentPath string) error {
	if !s.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("[CV] %s — %s", record.Fields.Name, record.Fields.Position)
	if record.Fields.Position == "" {
		name := record.Fields.Name
		if name == "" {
			name = record.FileName
		}
		subject = fmt.Sprintf("[CV] %s", name)
	}

	body := fmt.Sprintf(
		"New application from Telegram:\n\n"+
			"Name: %s\nEmail: %s\nPhone: %s\n"+
			"Position: %s\nSource: %s\n"+
			"File: %s\nDrive link: %s\n"+
			"User: %s\nTime: %s\n",
		record.Fields.Name, record.Fields.Email, record.Fields.Phone,
		record.Fields.Position, record.Fields.Source,
		record.FileName, record.FileLink,
		record.Submitter, record.SubmittedAt.Format("2006-01-02 15:04:05 MST"),
	)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if s.attachFile && attachmentPath != "" {
		m.Attach(attachmentPath, gomail.Rename(record.FileName))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
