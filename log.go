package ukf

import log "github.com/sirupsen/logrus"

// logger is used by the package level helpers and copied into every new UKF.
var logger log.FieldLogger = log.StandardLogger()

// SetLogger replaces the package logger. A nil logger restores the logrus standard logger.
func SetLogger(l log.FieldLogger) {
	if l == nil {
		l = log.StandardLogger()
	}
	logger = l
}
