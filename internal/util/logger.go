package util

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// ParseLogLevel maps a config string to a zap level, defaulting to info.
func ParseLogLevel(level string) zapcore.Level {
	if lvl, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

// NewLogger builds a console logger. When logFile is set, output goes to that
// file instead of stdout so the interactive shell stays readable.
func NewLogger(level, logFile string) (*zap.Logger, error) {
	var sink io.Writer = os.Stdout

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		sink = file
	}

	return newConsoleLogger(ParseLogLevel(level), sink), nil
}

func newConsoleLogger(level zapcore.Level, sink io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " | "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(sink),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}
