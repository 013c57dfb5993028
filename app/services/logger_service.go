package services

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"AguaPos/app/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerService handles application logging
type LoggerService struct {
	logFile string
	logger  *zap.Logger
	sugar   *zap.SugaredLogger
	rotator *lumberjack.Logger
}

// NewLoggerService creates a logger writing to stderr and, when enabled,
// to a rotated file under <dataDir>/logs. The logger becomes zap's global.
func NewLoggerService(dataDir string, cfg config.LoggerConfig) *LoggerService {
	s := &LoggerService{}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zapcore.InfoLevel)
		}
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			level,
		),
	}

	if cfg.FileEnable && dataDir != "" {
		logDir := filepath.Join(dataDir, "logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create logs directory: %v\n", err)
		} else {
			s.logFile = filepath.Join(logDir, "aguapos.log")
			s.rotator = &lumberjack.Logger{
				Filename:   s.logFile,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				LocalTime:  true,
			}
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(s.rotator),
				level,
			))
		}
	}

	s.logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	s.sugar = s.logger.Sugar()
	zap.ReplaceGlobals(s.logger)

	return s
}

// NewNopLoggerService returns a logger that discards everything
func NewNopLoggerService() *LoggerService {
	l := zap.NewNop()
	return &LoggerService{logger: l, sugar: l.Sugar()}
}

func withDetails(details []string) []interface{} {
	if len(details) == 0 {
		return nil
	}
	return []interface{}{"details", details[0]}
}

// LogInfo logs an informational message
func (s *LoggerService) LogInfo(message string, details ...string) {
	s.sugar.Infow(message, withDetails(details)...)
}

// LogWarning logs a warning message
func (s *LoggerService) LogWarning(message string, details ...string) {
	s.sugar.Warnw(message, withDetails(details)...)
}

// LogError logs an error message
func (s *LoggerService) LogError(message string, err error, details ...string) {
	kv := withDetails(details)
	if err != nil {
		kv = append(kv, "error", err)
	}
	s.sugar.Errorw(message, kv...)
}

// LogPanic logs a panic with stack trace
func (s *LoggerService) LogPanic(recovered interface{}) {
	s.sugar.Errorw("Recovered from panic", "panic", recovered, "stack", string(debug.Stack()))
}

// RecoverPanic is a helper to recover from panics in goroutines
func (s *LoggerService) RecoverPanic() {
	if r := recover(); r != nil {
		s.LogPanic(r)
	}
}

// GetLogPath returns the active log file, empty when file logging is off
func (s *LoggerService) GetLogPath() string {
	return s.logFile
}

// Close flushes buffered entries and closes the log file
func (s *LoggerService) Close() {
	_ = s.logger.Sync()
	if s.rotator != nil {
		s.rotator.Close()
	}
}
