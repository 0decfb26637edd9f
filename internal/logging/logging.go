// Package logging configures the process logger.
package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup returns a text logger writing to out at the named level.
func Setup(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	})
	return log, nil
}

// Entry is a captured log line.
type Entry struct {
	Time    time.Time
	Level   logrus.Level
	Message string
	Fields  logrus.Fields
}

// Hook forwards entries to a callback, used by the TUI to mirror the log
// into its debug view. Entries above the hook's level are ignored.
type Hook struct {
	mu    sync.Mutex
	level logrus.Level
	fn    func(Entry)
}

func NewHook(level logrus.Level, fn func(Entry)) *Hook {
	return &Hook{level: level, fn: fn}
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels[:h.level+1]
}

func (h *Hook) Fire(e *logrus.Entry) error {
	fields := make(logrus.Fields, len(e.Data))
	for k, v := range e.Data {
		fields[k] = v
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fn(Entry{Time: e.Time, Level: e.Level, Message: e.Message, Fields: fields})
	return nil
}
