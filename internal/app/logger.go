package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// значение ENV, при котором логгер переключается на JSON-профиль
const envProduction = "production"

// NewLogger строит логгер движка: JSON в production,
// цветной консольный вывод в остальных окружениях.
func NewLogger(env string) *zap.Logger {
	var config zap.Config

	if env == envProduction {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger
}
