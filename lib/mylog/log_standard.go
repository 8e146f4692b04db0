package mylog

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

type standardLogger struct {
	componentName string
	logger        *zap.SugaredLogger
}

func newStandardLogger(componentName string) Logger {
	zl, err := zap.NewDevelopment()
	if err != nil {
		zl = zap.NewNop()
	}

	return standardLogger{
		componentName: componentName,
		logger:        zl.Named(componentName).Sugar(),
	}
}

func (l standardLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any) {
	logger := l.logger
	if traceLabel != "" {
		logger = logger.With("aggregate", traceLabel)
	}

	msg := fmt.Sprintf(format, a...)
	switch severity {
	case SeverityDebug:
		logger.Debug(msg)
	case SeverityWarn:
		logger.Warn(msg)
	case SeverityError:
		logger.Error(msg)
	default:
		logger.Info(msg)
	}
}
