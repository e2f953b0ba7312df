// Package logger 基于 zap 的全局结构化日志
// 全局日志器由运行配置决定级别与格式；命令和请求可以把带作用域字段的日志器放入 context
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reliability/types"
)

// Format 日志输出格式
type Format string

const (
	FormatConsole Format = "console" // 单行文本
	FormatJSON    Format = "json"    // 每行一个 JSON 对象
)

var (
	level  = zap.NewAtomicLevelAt(zap.InfoLevel)
	global = New(level, FormatConsole, os.Stderr)
)

type contextKey struct{}

// New 创建写入 w 的日志器
func New(enabler zapcore.LevelEnabler, format Format, w io.Writer, options ...zap.Option) *zap.SugaredLogger {
	enc := zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "message",
		LevelKey:         "level",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: ", ",
	}
	var encoder zapcore.Encoder
	if format == FormatJSON {
		enc.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(enc)
	} else {
		enc.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(enc)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), enabler)
	return zap.New(core, options...).Sugar()
}

// ParseLogLevel 解析日志级别，只接受 debug、info、warn 和 error
func ParseLogLevel(s string) (zapcore.Level, bool) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl > zapcore.ErrorLevel {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

// ParseFormat 解析输出格式，空串视为 console
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatConsole:
		return FormatConsole, true
	case FormatJSON:
		return f, true
	}
	return FormatConsole, false
}

// Setup 按运行配置重建全局日志器，输出到 w
func Setup(levelName, formatName string, w io.Writer) error {
	lvl, ok := ParseLogLevel(levelName)
	if !ok {
		return fmt.Errorf("%w: 日志级别 %q", types.ErrInvalidInput, levelName)
	}
	format, ok := ParseFormat(formatName)
	if !ok {
		return fmt.Errorf("%w: 日志格式 %q", types.ErrInvalidInput, formatName)
	}
	_ = global.Sync()
	level.SetLevel(lvl)
	global = New(level, format, w)
	return nil
}

// Logger 全局日志器
func Logger() *zap.SugaredLogger { return global }

// ToContext 把日志器放入 context
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext 取出 context 中的日志器，不存在时返回全局日志器
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return global
}

// WithKV 在 context 的日志器上附加键值对
func WithKV(ctx context.Context, kvs ...any) context.Context {
	return ToContext(ctx, FromContext(ctx).With(kvs...))
}

func Debugf(ctx context.Context, format string, args ...any) { FromContext(ctx).Debugf(format, args...) }
func DebugKV(ctx context.Context, message string, kvs ...any) { FromContext(ctx).Debugw(message, kvs...) }

func Infof(ctx context.Context, format string, args ...any) { FromContext(ctx).Infof(format, args...) }
func InfoKV(ctx context.Context, message string, kvs ...any) { FromContext(ctx).Infow(message, kvs...) }

func WarnKV(ctx context.Context, message string, kvs ...any) { FromContext(ctx).Warnw(message, kvs...) }

func Errorf(ctx context.Context, format string, args ...any) { FromContext(ctx).Errorf(format, args...) }
func ErrorKV(ctx context.Context, message string, kvs ...any) { FromContext(ctx).Errorw(message, kvs...) }
