package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"dotmd/internal/config"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	SiteURL  string
	Enabled  bool
}

func NewMailService(cfg config.Config) *MailService {
	enabled := cfg.SMTPHost != "" && cfg.SMTPPort != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "" && cfg.SMTPFrom != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP configuration")
	}

	return &MailService{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		SiteURL:  cfg.SiteURL,
		Enabled:  enabled,
	}
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<p>You're subscribed to the dotmd newsletter.</p>
<p>New configs, tools and file types land at <a href="{{.SiteURL}}/browse">{{.SiteURL}}/browse</a>.</p>
<p>If this wasn't you, just ignore this email.</p>
`))

// SendWelcome mails a newly subscribed address. Fire and forget: a
// mail failure is logged, never surfaced to the subscriber.
func (s *MailService) SendWelcome(to string) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, map[string]string{"SiteURL": s.SiteURL}); err != nil {
		log.Printf("Failed to render welcome mail: %v", err)
		return
	}
	s.sendAsync([]string{to}, "Welcome to dotmd", buf.String())
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: dotmd <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		}
	}()
}
