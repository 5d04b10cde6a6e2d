/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logging provides module scoped loggers backed by zap.
//
//  Basic Flow:
//  1) Optionally initialize a logger provider (the default writes console output to stderr)
//  2) Create new logger for specific module
//  3) Call log info
package logging

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Logger is a module logger. The underlying zap logger is created on first use,
// after the provider has been initialized.
type Logger struct {
	instance *zap.SugaredLogger // access only via Logger.logger()
	module   string
	once     sync.Once
}

// LoggerProvider is a factory for module loggers
type LoggerProvider interface {
	GetLogger(module string) *zap.SugaredLogger
}

// logger factory singleton - access only via loggerProvider()
var loggerProviderInstance LoggerProvider
var loggerProviderOnce sync.Once

// Level defines all available log levels for log messages.
type Level int

// Log levels.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

var levelNames = []string{"CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG"}

const loggerModule = "ccdeploy/common"

// NewLogger creates and returns a Logger object based on the module name.
func NewLogger(module string) *Logger {
	return &Logger{module: module}
}

func loggerProvider() LoggerProvider {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = DefaultProvider()
		loggerProviderInstance.GetLogger(loggerModule).Debug("Default logger initialized")
	})
	return loggerProviderInstance
}

// Initialize sets new logger provider which takes over logging operations.
// It must be called before the first log output, otherwise it has no effect.
func Initialize(l LoggerProvider) {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = l
		loggerProviderInstance.GetLogger(loggerModule).Debug("Logger provider initialized")
	})
}

// String returns the level name
func (l Level) String() string {
	if l < CRITICAL || l > DEBUG {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// LogLevel returns the log level from a string representation.
func LogLevel(level string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(level))
	if name == "WARN" {
		name = "WARNING"
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return ERROR, errors.Errorf("logger: invalid log level '%s'", level)
}

// SetLevel sets the log level for the given module
func SetLevel(module string, level Level) {
	levels.set(module, level)
}

// SetDefaultLevel sets the log level of every module without an explicit level
func SetDefaultLevel(level Level) {
	levels.setDefault(level)
}

// GetLevel returns the log level for the given module
func GetLevel(module string) Level {
	return levels.get(module)
}

// IsEnabledFor returns true if the given level is enabled for the given module
func IsEnabledFor(module string, level Level) bool {
	return level <= levels.get(module)
}

// Fatal calls Fatal function of underlying logger
func (l *Logger) Fatal(args ...interface{}) {
	l.logger().Fatal(args...)
}

// Fatalf calls Fatalf function of underlying logger
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.logger().Fatalf(format, args...)
}

// Panic calls Panic function of underlying logger
func (l *Logger) Panic(args ...interface{}) {
	l.logger().Panic(args...)
}

// Panicf calls Panicf function of underlying logger
func (l *Logger) Panicf(format string, args ...interface{}) {
	l.logger().Panicf(format, args...)
}

// Debug calls Debug function of underlying logger
func (l *Logger) Debug(args ...interface{}) {
	l.logger().Debug(args...)
}

// Debugf calls Debugf function of underlying logger
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger().Debugf(format, args...)
}

// Debugw logs a message with structured key/value context
func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.logger().Debugw(msg, keysAndValues...)
}

// Info calls Info function of underlying logger
func (l *Logger) Info(args ...interface{}) {
	l.logger().Info(args...)
}

// Infof calls Infof function of underlying logger
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger().Infof(format, args...)
}

// Infow logs a message with structured key/value context
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.logger().Infow(msg, keysAndValues...)
}

// Warn calls Warn function of underlying logger
func (l *Logger) Warn(args ...interface{}) {
	l.logger().Warn(args...)
}

// Warnf calls Warnf function of underlying logger
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger().Warnf(format, args...)
}

// Error calls Error function of underlying logger
func (l *Logger) Error(args ...interface{}) {
	l.logger().Error(args...)
}

// Errorf calls Errorf function of underlying logger
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger().Errorf(format, args...)
}

// Errorw logs a message with structured key/value context
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.logger().Errorw(msg, keysAndValues...)
}

// IsEnabledFor returns true if the given level is enabled for this logger's module
func (l *Logger) IsEnabledFor(level Level) bool {
	return IsEnabledFor(l.module, level)
}

func (l *Logger) logger() *zap.SugaredLogger {
	l.once.Do(func() {
		l.instance = loggerProvider().GetLogger(l.module)
	})
	return l.instance
}
