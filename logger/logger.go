package logger

import (
	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// InitDevelopment switches to the human-friendly development encoder with
// debug level enabled. Used when game.debug tracing is on.
func InitDevelopment() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
