// Package diag adapts logrus to the core diagnostics sink.
package diag

import (
	"github.com/sirupsen/logrus"
)

// Sink writes leveled bring-up diagnostics through a logrus logger
type Sink struct {
	log *logrus.Logger
}

// New wraps the given logrus logger. A nil logger selects the
// logrus standard logger.
func New(log *logrus.Logger) *Sink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sink{log: log}
}

// Debugf implements core.Logger
func (s *Sink) Debugf(format string, args ...interface{}) {
	s.log.Debugf(format, args...)
}

// Infof implements core.Logger
func (s *Sink) Infof(format string, args ...interface{}) {
	s.log.Infof(format, args...)
}

// Warningf implements core.Logger
func (s *Sink) Warningf(format string, args ...interface{}) {
	s.log.Warningf(format, args...)
}

// Errorf implements core.Logger
func (s *Sink) Errorf(format string, args ...interface{}) {
	s.log.Errorf(format, args...)
}

// Metricf implements core.Logger. Measurements land on the info
// level tagged as metrics, so they survive the default level filter
// without drowning ordinary output.
func (s *Sink) Metricf(format string, args ...interface{}) {
	s.log.WithField("metric", true).Infof(format, args...)
}
