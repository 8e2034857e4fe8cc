package port

// Fields carries structured log attributes.
type Fields map[string]interface{}

// LoggerPort is the logging contract shared by every layer.
type LoggerPort interface {
	Info(msg string, fields Fields)

	Warn(msg string, fields Fields)

	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)
	// WithFields returns a child logger with the fields attached to every record
	WithFields(fields Fields) LoggerPort
}
