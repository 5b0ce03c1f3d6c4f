package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"aqualert/internal/platform/config"
	reportmodels "aqualert/internal/report/models"
	"aqualert/internal/subscription/models"
)

// Sender delivers alert mail over SMTP. It is deliberately plain: one
// message per recipient, text only. The dispatcher treats any returned error
// as a per-recipient delivery failure.
type Sender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func New(cfg config.SMTPConfig) *Sender {
	return &Sender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

func (s *Sender) Send(_ context.Context, recipient models.Citizen, incident reportmodels.IncidentReport) error {
	if s.host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	from := s.from
	if from == "" {
		from = s.username
	}
	if from == "" {
		return fmt.Errorf("smtp from not configured")
	}

	subject := fmt.Sprintf("Water quality alert for %s: %s (%s)",
		incident.AffectedMunicipality, incident.IncidentType, incident.SeverityLevel)

	greeting := recipient.Name
	if greeting == "" {
		greeting = recipient.Email
	}
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"An official environmental organization reported a water-quality incident in %s.\n\n"+
			"Incident: %s\nSeverity: %s\n\n%s\n\n"+
			"You receive this alert because you registered for %s.\n",
		greeting,
		incident.AffectedMunicipality,
		incident.IncidentType,
		incident.SeverityLevel,
		incident.Description,
		recipient.Municipality,
	)

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", recipient.Email),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	data := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	var auth smtp.Auth
	if s.username != "" || s.password != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, auth, from, []string{recipient.Email}, []byte(data))
}
