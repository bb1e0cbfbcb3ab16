package events

import (
	"github.com/ThreeDotsLabs/watermill"
	log "github.com/sirupsen/logrus"
)

// LoggerAdapter bridges watermill's logging to logrus.
type LoggerAdapter struct {
	entry *log.Entry
}

// NewLoggerAdapter wraps a logrus logger for use by watermill.
func NewLoggerAdapter(logger *log.Logger) *LoggerAdapter {
	return &LoggerAdapter{entry: log.NewEntry(logger)}
}

func (a *LoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).WithError(err).Error(msg)
}

func (a *LoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).Info(msg)
}

func (a *LoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).Debug(msg)
}

func (a *LoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).Trace(msg)
}

func (a *LoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &LoggerAdapter{entry: a.entry.WithFields(log.Fields(fields))}
}
