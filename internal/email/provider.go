package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(to, subject, body string) error

	// SendVerificationEmail отправляет письмо с подтверждением адреса
	SendVerificationEmail(to, token string) error
}
