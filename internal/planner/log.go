package planner

import (
	"io"

	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = discardLogger()

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger routes the planner's degradation warnings (unknown capacity
// scope, rejected moves) to l. A nil logger silences them.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		logger = discardLogger()
		return
	}
	logger = l
}
