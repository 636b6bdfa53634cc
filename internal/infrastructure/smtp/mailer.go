package smtp

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/yatraone/transit-api/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer sends HTML emails rendered from the embedded templates.
type Mailer interface {
	SendTemplated(ctx context.Context, to, subject, templateID string, data map[string]string) error
}

type mailer struct {
	dialer *gomail.Dialer
	from   string
	tmpl   *template.Template
}

func NewMailer(cfg *config.Config) (Mailer, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
		tmpl:   tmpl,
	}, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return tmpl, nil
}

func (m *mailer) SendTemplated(ctx context.Context, to, subject, templateID string, data map[string]string) error {
	body, err := render(m.tmpl, templateID, data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s to %s: %w", templateID, to, err)
	}
	return nil
}

func render(tmpl *template.Template, templateID string, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, templateID+".html", data); err != nil {
		return "", fmt.Errorf("render %s: %w", templateID, err)
	}
	return buf.String(), nil
}
