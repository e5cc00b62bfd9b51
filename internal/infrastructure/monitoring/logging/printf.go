package logging

import "fmt"

// PrintfLogger adapts a Logger to the Debugf/Infof/Errorf shape used by the
// upstream REST client.
type PrintfLogger struct {
	l Logger
}

// Printf wraps l. A nil l logs nowhere.
func Printf(l Logger) PrintfLogger {
	if l == nil {
		l = NewNopLogger()
	}
	return PrintfLogger{l: l}
}

func (p PrintfLogger) Debugf(format string, args ...interface{}) {
	p.l.Debug(fmt.Sprintf(format, args...))
}

func (p PrintfLogger) Infof(format string, args ...interface{}) {
	p.l.Info(fmt.Sprintf(format, args...))
}

func (p PrintfLogger) Errorf(format string, args ...interface{}) {
	p.l.Error(fmt.Sprintf(format, args...))
}

//Personal.AI order the ending
