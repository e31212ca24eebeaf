package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"rewear/internal/core/config"
)

// New 只写 stdout，测试和小工具用
func New(level string, json bool) (*zap.Logger, func()) {
	return FromConfig(config.Log{Level: level, JSON: json})
}

// FromConfig 按配置构建；rotate.enable 时同时写文件。
// JSON 模式按生产格式输出，否则彩色控制台 + Development
func FromConfig(c config.Log, fields ...zap.Field) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(c.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	enc := encoder(c.JSON)
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)}
	if c.Rotate.Enable {
		cores = append(cores, zapcore.NewCore(enc, rotating(c.Rotate), lvl))
	}

	// 同一条消息每秒前 100 条全打，之后每 100 条打 1 条
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller(), zap.Fields(fields...)}
	if !c.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() { _ = l.Sync() }
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// lumberjack 自己加锁，Sync 无事可做
type rotWriter struct{ *lumberjack.Logger }

func (rotWriter) Sync() error { return nil }

func rotating(r config.Rotate) zapcore.WriteSyncer {
	return rotWriter{&lumberjack.Logger{
		Filename:   r.Filename,
		MaxSize:    max(1, r.MaxSizeMB),
		MaxBackups: max(0, r.MaxBackups),
		MaxAge:     max(0, r.MaxAgeDays),
		Compress:   r.Compress,
	}}
}

// RedirectStdLog 把标准库 log 接到 zap，返回还原函数
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
