package logger

import "sync"

// MockLogger records which methods were called and every message passed to Log/Info.
type MockLogger struct {
	mu            sync.Mutex
	MethodsToCall map[string]bool
	Messages      []string
}

func (m *MockLogger) called(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MethodsToCall[name] = true
}

func (m *MockLogger) Debugf(format string, args ...any) {
	m.called("Debugf")
}

func (m *MockLogger) Debug(args ...any) {
	m.called("Debug")
}

func (m *MockLogger) Logf(format string, args ...any) {
	m.called("Logf")
}

func (m *MockLogger) Log(data string) {
	m.called("Log")
	m.mu.Lock()
	m.Messages = append(m.Messages, data)
	m.mu.Unlock()
}

func (m *MockLogger) Info(msg string) {
	m.called("Info")
	m.mu.Lock()
	m.Messages = append(m.Messages, msg)
	m.mu.Unlock()
}

func (m *MockLogger) Errorf(format string, args ...any) {
	m.called("Errorf")
}

func (m *MockLogger) Error(args ...any) {
	m.called("Error")
}

func (m *MockLogger) Sync() error {
	m.called("Sync")
	return nil
}

func (m *MockLogger) Called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MethodsToCall[name]
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		MethodsToCall: make(map[string]bool),
	}
}
