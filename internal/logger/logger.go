// Package logger wraps a process-wide zap logger. Production gets JSON
// output, everything else gets the human-readable development encoder.
package logger

import (
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/config"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init builds the global logger. Safe to call more than once; only the
// first call takes effect.
func Init() {
	once.Do(func() {
		var err error
		if config.IsProduction() {
			log, err = zap.NewProduction()
		} else {
			log, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("logger: " + err.Error())
		}
	})
}

// L returns the global logger, initializing it on first use.
func L() *zap.Logger {
	if log == nil {
		Init()
	}
	return log
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = L().Sync()
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func Fatal(msg string, fields ...zap.Field) { L().Fatal(msg, fields...) }
