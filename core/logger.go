package core

import "log"

// Logger is any service that can log messages.
// args may contain errors, map[string]interface{} extras, and the user the message relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// StdLogger prints messages and their args through a standard log.Logger.
type StdLogger struct {
	std *log.Logger
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std}
}

func (l StdLogger) Print(level, msg string, args []interface{}) {
	l.std.Println(level + " " + msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l StdLogger) Debug(msg string, args ...interface{}) { l.Print("DEBUG", msg, args) }
func (l StdLogger) Info(msg string, args ...interface{})  { l.Print("INFO", msg, args) }
func (l StdLogger) Warn(msg string, args ...interface{})  { l.Print("WARN", msg, args) }
func (l StdLogger) Error(msg string, args ...interface{}) { l.Print("ERROR", msg, args) }

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	l.Print("FATAL", msg, args)
	l.std.Fatal(msg)
}
