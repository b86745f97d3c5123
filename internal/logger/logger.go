package logger

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2/data/binding"
)

// AppLogger writes timestamped log lines to the console and, when the
// GUI is attached, mirrors Info/Error lines into a fyne string list so
// the panel can display them.
type AppLogger struct {
	dataBinding binding.StringList // nil when running headless
}

// NewConsoleLogger creates a logger for headless CLI runs.
func NewConsoleLogger() *AppLogger {
	return &AppLogger{}
}

// NewAppLogger creates a logger mirroring into a UI data binding.
func NewAppLogger(data binding.StringList) *AppLogger {
	return &AppLogger{dataBinding: data}
}

// Info logs an informational message
func (l *AppLogger) Info(format string, args ...interface{}) {
	l.log("INFO", format, args...)
}

// Error logs an error message
func (l *AppLogger) Error(format string, args ...interface{}) {
	l.log("ERROR", format, args...)
}

// Debug logs to the console only, keeping the UI log readable.
func (l *AppLogger) Debug(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("[DEBUG] [%s] %s\n", timestamp, msg)
}

func (l *AppLogger) log(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05")
	formatted := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	fmt.Println(formatted)

	if l.dataBinding == nil {
		return
	}
	l.dataBinding.Append(formatted)

	// Keep the UI log bounded to the last 100 lines
	list, _ := l.dataBinding.Get()
	if len(list) > 100 {
		l.dataBinding.Set(list[1:])
	}
}
