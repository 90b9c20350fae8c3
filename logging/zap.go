package logging

import (
	"go.uber.org/zap"
)

// NewZap builds the process logger. Format "console" selects the human-readable development
// encoder; anything else produces JSON.
func NewZap(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}
	return cfg.Build()
}

type zapPrintf struct {
	sugar *zap.SugaredLogger
}

// ZapPrintf adapts a zap logger to the Logger interface. Messages are logged at debug level.
func ZapPrintf(lg *zap.Logger) Logger {
	if lg == nil {
		return NullLogger()
	}
	return zapPrintf{sugar: lg.Sugar()}
}

func (z zapPrintf) Printf(message string, args ...interface{}) {
	z.sugar.Debugf(message, args...)
}
