package app

// MockEmailProvider используется для тестов и локальной разработки.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(to, subject, body string) error          { return nil }
func (m *MockEmailProvider) SendVerificationEmail(to, token string) error { return nil }
