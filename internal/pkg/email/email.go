package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/pkg/queue"
)

// ErrInvalidJob marks jobs that can never be sent as queued.
var ErrInvalidJob = errors.New("invalid notification job")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Service struct {
	cfg      *config.EmailConfig
	siteName string
	siteURL  string
	send     sendFunc
}

func NewService(cfg *config.EmailConfig, site *config.SiteConfig) *Service {
	return &Service{
		cfg:      cfg,
		siteName: site.Name,
		siteURL:  strings.TrimRight(site.PublicURL, "/"),
		send:     smtp.SendMail,
	}
}

type connectionView struct {
	SiteName     string
	SiteURL      string
	UserName     string
	ProviderID   int64
	ProviderName string
	AccessLabel  string
	Validity     string
	PaymentID    string
}

var templates = template.Must(template.New("root").Parse(`
{{define "connection_user"}}<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2>Your connection is ready</h2>
<p>Hi {{.UserName}},</p>
<p>You can now see the contact details for <strong>{{.ProviderName}}</strong>.</p>
<p>Plan: {{.AccessLabel}}<br>Valid: {{.Validity}}</p>
<p><a href="{{.SiteURL}}/providers/{{.ProviderID}}">Open provider profile</a></p>
<p style="color: #6b7280; font-size: 12px;">{{.SiteName}}</p>
</div></body></html>{{end}}
{{define "connection_provider"}}<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2>New customer connection</h2>
<p>{{.UserName}} unlocked your contact details on {{.SiteName}} and may reach out soon.</p>
<p>Plan: {{.AccessLabel}}</p>
</div></body></html>{{end}}
{{define "connection_operator"}}<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif;">
<p>Connection granted: {{.UserName}} &rarr; {{.ProviderName}} (#{{.ProviderID}})</p>
<p>Plan: {{.AccessLabel}}, valid {{.Validity}}</p>
{{if .PaymentID}}<p>Payment: {{.PaymentID}}</p>{{end}}
</body></html>{{end}}
`))

// Render builds the subject and HTML body for a notification job.
func (s *Service) Render(job *queue.NotificationJob) (string, string, error) {
	view := connectionView{
		SiteName:     s.siteName,
		SiteURL:      s.siteURL,
		UserName:     job.UserName,
		ProviderID:   job.ProviderID,
		ProviderName: job.ProviderName,
		AccessLabel:  accessLabel(job.AccessType),
		Validity:     validity(job.ExpiresAt),
		PaymentID:    job.PaymentID,
	}

	var subject string
	switch job.Kind {
	case queue.JobConnectionUser:
		subject = fmt.Sprintf("Contact unlocked: %s - %s", job.ProviderName, s.siteName)
	case queue.JobConnectionProvider:
		subject = fmt.Sprintf("New customer connection - %s", s.siteName)
	case queue.JobConnectionOperator:
		subject = fmt.Sprintf("[%s] connection %d -> %d", s.siteName, job.UserID, job.ProviderID)
	default:
		return "", "", fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, job.Kind)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, job.Kind, view); err != nil {
		return "", "", fmt.Errorf("%w: failed to render %s: %v", ErrInvalidJob, job.Kind, err)
	}

	return subject, body.String(), nil
}

// SendNotification renders and sends one queued job.
func (s *Service) SendNotification(job *queue.NotificationJob) error {
	if job.To == "" {
		return fmt.Errorf("%w: %s has no recipient", ErrInvalidJob, job.Kind)
	}

	subject, body, err := s.Render(job)
	if err != nil {
		return err
	}
	return s.sendHTML(job.To, subject, body)
}

func (s *Service) sendHTML(to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}

func accessLabel(accessType string) string {
	switch accessType {
	case "one_time":
		return "One-time connection"
	case "seven_day":
		return "7-day connection"
	case "thirty_day":
		return "30-day connection"
	case "lifetime":
		return "Lifetime connection"
	case "free":
		return "Free trial connection"
	default:
		return accessType
	}
}

func validity(expiresAt *time.Time) string {
	if expiresAt == nil {
		return "lifetime"
	}
	return "until " + expiresAt.UTC().Format("02 Jan 2006 15:04 UTC")
}
