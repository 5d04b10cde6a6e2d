/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapgrpc"
)

// Format is the output encoding of the zap provider
type Format string

const (
	// FormatConsole human readable, tab separated output
	FormatConsole Format = "console"
	// FormatJSON one JSON object per entry
	FormatJSON Format = "json"
	// FormatLogfmt key=value pairs
	FormatLogfmt Format = "logfmt"
)

// ParseFormat returns the Format for the given name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatConsole, FormatJSON, FormatLogfmt:
		return f, nil
	case "":
		return FormatConsole, nil
	default:
		return "", errors.Errorf("logger: unsupported log format '%s'", name)
	}
}

// ZapProvider creates module loggers that share a single zap core. Levels are
// evaluated per module on every entry so that SetLevel takes effect on loggers
// that already exist.
type ZapProvider struct {
	core zapcore.Core
}

// NewZapProvider returns a provider that writes entries in the given format to w
func NewZapProvider(format Format, w io.Writer) (*ZapProvider, error) {
	encoder, err := newEncoder(format)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(zapcore.DebugLevel))
	return NewZapProviderWithCore(core), nil
}

// NewZapProviderWithCore returns a provider around an existing core. The core
// should accept every level; filtering is done per module.
func NewZapProviderWithCore(core zapcore.Core) *ZapProvider {
	return &ZapProvider{core: core}
}

// DefaultProvider returns the console provider writing to stderr
func DefaultProvider() *ZapProvider {
	p, err := NewZapProvider(FormatConsole, os.Stderr)
	if err != nil {
		panic(err)
	}
	return p
}

// GetLogger returns a logger named after the module
func (p *ZapProvider) GetLogger(module string) *zap.SugaredLogger {
	return zap.New(
		&moduleCore{Core: p.core, module: module},
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.DPanicLevel),
	).Named(module).Sugar()
}

// NewGRPCLogger returns a grpclog compatible logger for the given module
func (p *ZapProvider) NewGRPCLogger(module string) *zapgrpc.Logger {
	l := zap.New(&moduleCore{Core: p.core, module: module}, zap.AddCaller(), zap.AddCallerSkip(4)).Named(module)
	return zapgrpc.NewLogger(l)
}

func newEncoder(format Format) (zapcore.Encoder, error) {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.NameKey = "module"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case FormatConsole, "":
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeName = zapcore.FullNameEncoder
		return zapcore.NewConsoleEncoder(cfg), nil
	case FormatJSON:
		return zapcore.NewJSONEncoder(cfg), nil
	case FormatLogfmt:
		return zaplogfmt.NewEncoder(cfg), nil
	default:
		return nil, errors.Errorf("logger: unsupported log format '%s'", format)
	}
}

// moduleCore enables entries according to the current level of its module
type moduleCore struct {
	zapcore.Core
	module string
}

func (c *moduleCore) Enabled(lvl zapcore.Level) bool {
	return levels.enabled(c.module, lvl)
}

func (c *moduleCore) With(fields []zapcore.Field) zapcore.Core {
	return &moduleCore{Core: c.Core.With(fields), module: c.module}
}

func (c *moduleCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}
