package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type Log interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message string, args ...interface{})
	ErrorErr(message string, err error, args ...interface{})
	Fatal(message string, args ...interface{})
	FatalErr(message string, err error, args ...interface{})
	With(args ...interface{}) Log
}

type Logger struct {
	logger *zap.SugaredLogger
}

func New(env string) *Logger {
	var cfg zap.Config

	switch env {
	case envLocal:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case envDev:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case envProd:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stdout"}

	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}
	return &Logger{logger: log.Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.logger.Sync()
}

// With returns a child logger that adds args to every entry.
func (l *Logger) With(args ...interface{}) Log {
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) Debug(message string, args ...interface{}) {
	l.logger.Debugw(message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.logger.Infow(message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.logger.Warnw(message, args...)
}

func (l *Logger) Error(message string, args ...interface{}) {
	l.logger.Errorw(message, args...)
}

func (l *Logger) Fatal(message string, args ...interface{}) {
	l.logger.Errorw("FATAL: "+message, args...)
	l.Sync()
	os.Exit(1)
}

func (l *Logger) ErrorErr(message string, err error, args ...any) {
	allArgs := append(args, Err(err))
	l.logger.Errorw(message, allArgs...)
}

func (l *Logger) FatalErr(message string, err error, args ...any) {
	allArgs := append(args, Err(err))
	l.logger.Errorw("FATAL: "+message, allArgs...)
	l.Sync()
	os.Exit(1)
}

func Err(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", err.Error())
}
