package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu            sync.RWMutex
	defaultLogger = zap.NewNop()
)

func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Set installs a development logger writing to stderr.
func Set() {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	Replace(l)
}

// Replace installs l as the default logger.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

type Options struct {
	Enabled    bool
	Path       string
	Verbose    bool
	MaxSizeMB  int
	MaxBackups int
}

// New builds a logger. Disabled logging yields a no-op logger. With a path
// the output is JSON in a rotated file, otherwise it goes to stderr.
func New(opts Options) *zap.Logger {
	if !opts.Enabled {
		return zap.NewNop()
	}

	level := zap.InfoLevel
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Verbose {
		level = zap.DebugLevel
	}

	var core zapcore.Core
	if opts.Path != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), level)
	} else {
		encoder := zapcore.NewJSONEncoder(encCfg)
		if opts.Verbose {
			encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		}
		core = zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	}

	l := zap.New(core, zap.AddCaller())
	if opts.Verbose {
		l = l.WithOptions(zap.Development())
	}
	return l
}

func Flush() {
	_ = Get().Sync()
}
