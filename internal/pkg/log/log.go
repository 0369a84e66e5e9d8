package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger = zap.Must(zap.NewProduction()).Sugar()
	Logger = zap.Must(zap.NewDevelopment()).Sugar()
)

// Init replaces the global logger. Unknown levels fall back to info.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	conf := zap.NewProductionConfig()
	if development {
		conf = zap.NewDevelopmentConfig()
	}
	conf.Level = zap.NewAtomicLevelAt(lvl)

	l, err := conf.Build()
	if err != nil {
		return err
	}

	Logger = l.Sugar()

	return nil
}
