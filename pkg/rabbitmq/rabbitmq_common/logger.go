package rabbitmq_common

// Logger is the key/value logging contract of the rabbitmq packages. Services bridge their own
// logger to it.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}

func (noopLogger) Info(string, ...interface{}) {}

func (noopLogger) Warn(string, ...interface{}) {}

func (noopLogger) Error(error, string, ...interface{}) {}

func NewNoopLogger() Logger {
	return noopLogger{}
}
