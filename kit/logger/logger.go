package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Logger struct {
	zapLogger *zap.Logger
}

type loggerConfig struct {
	noStdout   bool
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

type Option func(*loggerConfig)

// NoStdout writes to the log file only.
var NoStdout Option = func(config *loggerConfig) {
	config.noStdout = true
}

func WithRotateLog(maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(config *loggerConfig) {
		config.maxSizeMB = maxSizeMB
		config.maxBackups = maxBackups
		config.maxAgeDays = maxAgeDays
	}
}

func NewLogger(filePath string, level Level, options ...Option) (*Logger, error) {
	config := loggerConfig{}
	for _, option := range options {
		option(&config)
	}

	var fileWriter zapcore.WriteSyncer
	if config.maxSizeMB != 0 {
		fileWriter = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    config.maxSizeMB,
			MaxBackups: config.maxBackups,
			MaxAge:     config.maxAgeDays,
		})
	} else {
		file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file failed")
		}
		fileWriter = zapcore.AddSync(file)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{zapcore.NewCore(encoder, fileWriter, level)}
	if !config.noStdout {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	return &Logger{
		zapLogger: zap.New(zapcore.NewTee(cores...), zap.AddCaller()),
	}, nil
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{zapLogger: l.zapLogger.With(fields...)}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.zapLogger.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.zapLogger.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.zapLogger.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.zapLogger.Error(msg, fields...)
}

func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}
