// Package gpsdlog provides session-scoped structured logging for
// gpsdcore, built on logrus the way pkg/caster scopes a logger to an
// HTTP request: a base logger is given a fixed set of fields once and
// every subsequent log call on the returned logger carries them.
package gpsdlog

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields re-exports logrus.Fields so callers constructing log calls
// against a Session logger don't need a direct logrus import for the
// common case.
type Fields = logrus.Fields

// NewSessionID returns a fresh random session identifier, used to
// correlate every log line and error produced by one Session.
func NewSessionID() string {
	return uuid.NewString()
}

// NewSessionLogger scopes base to a single session: every line logged
// through the returned logger carries session_id and device fields.
// If base is nil, logrus.StandardLogger() is used.
func NewSessionLogger(base logrus.FieldLogger, sessionID, device string) logrus.FieldLogger {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return base.WithFields(logrus.Fields{
		"session_id": sessionID,
		"device":     device,
	})
}
