package pkg

import (
	"crypto/tls"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// ModerationNoticeHTML 管理操作通知正文（封禁/警告时发给目标用户）
func ModerationNoticeHTML(community, action, reason string, expiresAt *time.Time) string {
	body := fmt.Sprintf(`<p>您好，</p><p>您在社区 <b>%s</b> 收到了一次管理操作：<b>%s</b>。</p>`, community, action)
	if reason != "" {
		body += fmt.Sprintf(`<p>原因：%s</p>`, reason)
	}
	if expiresAt != nil {
		body += fmt.Sprintf(`<p>生效至：%s</p>`, expiresAt.Format("2006-01-02 15:04:05"))
	}
	return body
}
