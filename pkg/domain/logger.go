package domain

//go:generate moq -out mocks/logger_mock.go -pkg mocks . Logger

// Logger is the structured logging interface used throughout the domain and
// application layers. It is implementation-agnostic so infrastructure can
// swap backends without touching domain code.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}
