/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"os"
	"sync"

	"go.uber.org/zap/zapcore"
)

// levelEnvVar overrides the default level of all modules
const levelEnvVar = "LOGGING_LEVEL"

var levels = newModuleLevels()

type moduleLevels struct {
	mutex        sync.RWMutex
	levels       map[string]Level
	defaultLevel Level
}

func newModuleLevels() *moduleLevels {
	def := INFO
	if l, err := LogLevel(os.Getenv(levelEnvVar)); err == nil {
		def = l
	}
	return &moduleLevels{levels: make(map[string]Level), defaultLevel: def}
}

func (m *moduleLevels) set(module string, level Level) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.levels[module] = level
}

func (m *moduleLevels) setDefault(level Level) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.defaultLevel = level
}

func (m *moduleLevels) get(module string) Level {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if l, ok := m.levels[module]; ok {
		return l
	}
	return m.defaultLevel
}

func (m *moduleLevels) enabled(module string, lvl zapcore.Level) bool {
	return fromZapLevel(lvl) <= m.get(module)
}

func fromZapLevel(lvl zapcore.Level) Level {
	switch {
	case lvl <= zapcore.DebugLevel:
		return DEBUG
	case lvl == zapcore.InfoLevel:
		return INFO
	case lvl == zapcore.WarnLevel:
		return WARNING
	case lvl == zapcore.ErrorLevel:
		return ERROR
	default:
		return CRITICAL
	}
}
