package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

type Field struct {
	Key   string
	Value string
}

type GlobalConfig struct {
	Fields []Field
	Level  zerolog.Level
}

var (
	defaultLogger *Logger
	once          sync.Once
	ready         bool
)

func InitDefault(cfg GlobalConfig) {
	once.Do(func() {
		l := NewFromConfig(Config{Level: cfg.Level})
		ctx := l.With()
		for _, f := range cfg.Fields {
			ctx = ctx.Str(f.Key, f.Value)
		}
		l.zl = ctx.Logger()
		defaultLogger = l
		ready = true
	})
}

// Default returns the process-wide logger. Panics if InitDefault was
// never called, matching the fail-fast behavior the rest of the ambient
// stack relies on at startup.
func Default() *Logger {
	if !ready {
		panic("logger: Default() called before InitDefault()")
	}
	return defaultLogger
}
