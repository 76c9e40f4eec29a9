package auth

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

// LoadEmailConfig loads email configuration from environment
func LoadEmailConfig() *models.EmailConfig {
	return &models.EmailConfig{
		SMTPHost:    utils.GetEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:    utils.GetEnvInt("SMTP_PORT", 465),
		Username:    utils.GetEnvOrDefault("SMTP_USERNAME", ""),
		Password:    utils.GetEnvOrDefault("SMTP_PASSWORD", ""),
		FromAddress: utils.GetEnvOrDefault("FROM_EMAIL", "noreply@certforge.dev"),
		FromName:    utils.GetEnvOrDefault("FROM_NAME", "CertForge"),
		BaseURL:     utils.GetEnvOrDefault("BASE_URL", "http://localhost:8050"),
	}
}

// EmailService handles notification email
type EmailService struct {
	config *models.EmailConfig
}

func NewEmailService(config *models.EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// BuildAchievementEmail formats the notification sent when achievements
// unlock
func (es *EmailService) BuildAchievementEmail(username string, titles []string, points int) (string, string) {
	subject := "You unlocked a new achievement!"
	if len(titles) > 1 {
		subject = fmt.Sprintf("You unlocked %d new achievements!", len(titles))
	}

	body := fmt.Sprintf(`Hello %s,

Nice work! You just earned:

- %s

That's %d more points toward your total. Keep the momentum going at %s.

Best regards,
The %s Team`, username, strings.Join(titles, "\n- "), points, es.config.BaseURL, es.config.FromName)

	return subject, body
}

// BuildDigestEmail formats the weekly study summary
func (es *EmailService) BuildDigestEmail(username string, summary *models.PerformanceSummary, activity *models.ActivitySummary) (string, string) {
	subject := "Your weekly study digest"

	streakLine := "Your streak has lapsed; a session today restarts it."
	if activity.StreakDays > 0 {
		streakLine = fmt.Sprintf("You are on a %d-day streak.", activity.StreakDays)
	}

	scoreLine := ""
	if summary.AverageScore > 0 {
		scoreLine = fmt.Sprintf("Average score so far: %.1f%%\n", summary.AverageScore)
	}

	body := fmt.Sprintf(`Hello %s,

Here is your week in review:

Study sessions this week: %d
Total study time: %d minutes
%s%s

Keep it up at %s.

Best regards,
The %s Team`, username, activity.InteractionCount, summary.TotalTimeSpent/60,
		scoreLine, streakLine, es.config.BaseURL, es.config.FromName)

	return subject, body
}

func (es *EmailService) SendEmail(to, subject, body string) error {
	if es.config.Username == "" || es.config.Password == "" {
		utils.LogInfo("SMTP not configured, logging email instead")
		utils.LogInfo("=== EMAIL ===")
		utils.LogInfo("To: %s", to)
		utils.LogInfo("Subject: %s", subject)
		utils.LogInfo("Body: %s", body)
		utils.LogInfo("=============")
		return nil
	}

	return es.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP with SSL support
func (es *EmailService) sendEmail(to, subject, body string) error {
	utils.LogInfo("Sending email to %s: %s", to, subject)

	message := fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", es.config.FromName, es.config.FromAddress, to, subject, body)

	addr := fmt.Sprintf("%s:%d", es.config.SMTPHost, es.config.SMTPPort)

	var conn net.Conn
	var err error

	if es.config.SMTPPort == 465 {
		// Port 465 uses implicit SSL (SMTPS)
		tlsConfig := &tls.Config{
			ServerName: es.config.SMTPHost,
		}
		conn, err = tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			utils.LogError("Failed to establish SSL connection to %s: %v", addr, err)
			return err
		}
	} else {
		// Port 587 or 25 uses plain connection with STARTTLS
		conn, err = net.Dial("tcp", addr)
		if err != nil {
			utils.LogError("Failed to connect to %s: %v", addr, err)
			return err
		}
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, es.config.SMTPHost)
	if err != nil {
		utils.LogError("Failed to create SMTP client: %v", err)
		return err
	}
	defer client.Quit()

	if es.config.SMTPPort != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsConfig := &tls.Config{
				ServerName: es.config.SMTPHost,
			}
			if err = client.StartTLS(tlsConfig); err != nil {
				utils.LogError("Failed to start TLS: %v", err)
				return err
			}
		}
	}

	smtpAuth := smtp.PlainAuth("", es.config.Username, es.config.Password, es.config.SMTPHost)
	if err = client.Auth(smtpAuth); err != nil {
		utils.LogError("SMTP authentication failed: %v", err)
		return err
	}

	if err = client.Mail(es.config.FromAddress); err != nil {
		utils.LogError("Failed to set sender: %v", err)
		return err
	}

	if err = client.Rcpt(to); err != nil {
		utils.LogError("Failed to set recipient: %v", err)
		return err
	}

	writer, err := client.Data()
	if err != nil {
		utils.LogError("Failed to open data writer: %v", err)
		return err
	}
	defer writer.Close()

	if _, err = writer.Write([]byte(message)); err != nil {
		utils.LogError("Failed to write message: %v", err)
		return err
	}

	utils.LogInfo("Email sent successfully to %s", to)
	return nil
}
