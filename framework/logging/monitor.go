package logging

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-wit/framework/container"
)

// Monitor logs every instance the container creates. The message is
// indented two spaces per level of parent delegation, so a resolution that
// crosses containers reads as a tree.
//
//	c := container.New(container.WithMonitor(logging.NewMonitor(log)))
type Monitor struct {
	log   logrus.FieldLogger
	level logrus.Level
}

var _ container.Monitor = (*Monitor)(nil)

// NewMonitor creates a Monitor logging at info level.
func NewMonitor(log logrus.FieldLogger) *Monitor {
	return &Monitor{log: log, level: logrus.InfoLevel}
}

// WithLevel returns a copy of m logging at level.
func (m *Monitor) WithLevel(level logrus.Level) *Monitor {
	return &Monitor{log: m.log, level: level}
}

// OnCreate implements container.Monitor.
func (m *Monitor) OnCreate(key any, depth int) {
	if depth < 0 {
		depth = 0
	}
	msg := strings.Repeat("  ", depth) + "created " + describe(key)
	entry := m.log.WithFields(logrus.Fields{
		"key":   describe(key),
		"depth": depth,
	})

	switch m.level {
	case logrus.TraceLevel:
		entry.Trace(msg)
	case logrus.DebugLevel:
		entry.Debug(msg)
	case logrus.WarnLevel:
		entry.Warn(msg)
	case logrus.ErrorLevel:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
}

func describe(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case reflect.Type:
		return k.String()
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprintf("%v", k)
	}
}
