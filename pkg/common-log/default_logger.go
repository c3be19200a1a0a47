package commonlog

import (
	"go.uber.org/zap"
)

type defaultLoggerService struct {
	logger *zap.SugaredLogger
}

// NewDefaultLoggerService writes JSON lines to stdout. It backs the detail and summary
// logs until dedicated loggers are configured.
func NewDefaultLoggerService() LoggerService {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	return &defaultLoggerService{logger: logger.Sugar()}
}

// NewNopLoggerService discards everything.
func NewNopLoggerService() LoggerService {
	return &defaultLoggerService{logger: zap.NewNop().Sugar()}
}

func (l *defaultLoggerService) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l *defaultLoggerService) Debug(args ...any) {
	l.logger.Debug(args...)
}

func (l *defaultLoggerService) Logf(format string, args ...any) {
	l.logger.Infof(format, args...)
}

func (l *defaultLoggerService) Log(data string) {
	l.logger.Info(data)
}

func (l *defaultLoggerService) Info(msg string) {
	l.logger.Info(msg)
}

func (l *defaultLoggerService) Errorf(format string, args ...any) {
	l.logger.Errorf(format, args...)
}

func (l *defaultLoggerService) Error(args ...any) {
	l.logger.Error(args...)
}

func (l *defaultLoggerService) Sync() error {
	return l.logger.Sync()
}
