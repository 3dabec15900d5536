package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	// BaseURL используется для ссылок внутри писем
	BaseURL string
}

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	cfg *SMTPConfig
}

func NewSMTPProvider(cfg *SMTPConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(p.cfg.FromEmail, p.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(p.cfg.Host, p.cfg.Port, p.cfg.Username, p.cfg.Password)

	return d.DialAndSend(m)
}

// SendVerificationEmail отправляет письмо со ссылкой подтверждения
func (p *SMTPProvider) SendVerificationEmail(to, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", p.cfg.BaseURL, token)
	body := fmt.Sprintf(`
		<h2>Подтверждение адреса</h2>
		<p>Для завершения регистрации перейдите по ссылке:</p>
		<p><a href="%s">Подтвердить email</a></p>
	`, link)

	return p.Send(to, "Подтверждение регистрации", body)
}
