package core

import (
	"context"
	"io"

	"github.com/gofrs/uuid"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig represents the logging configuration from the config files
type LoggingConfig struct {
	Level       string   `yaml:"level"`
	Development bool     `yaml:"development"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"outputPaths"`
}

// LoggerModule provides the logger dependencies
var LoggerModule = fx.Options(
	fx.Provide(NewSugaredLogger),
	fx.Provide(NewLogger),
)

func NewLogger(sugar *zap.SugaredLogger) *zap.Logger {
	return sugar.Desugar()
}

// LoggerParams are the dependencies of NewSugaredLogger.
type LoggerParams struct {
	fx.In

	Provider  config.Provider
	Lifecycle fx.Lifecycle
}

// NewSugaredLogger creates a new zap.SugaredLogger based on the configuration.
// The terminal belongs to the UI, so output only goes to the configured paths.
func NewSugaredLogger(p LoggerParams) (*zap.SugaredLogger, error) {
	var loggingConfig LoggingConfig

	if err := p.Provider.Get(LoggingKey).Populate(&loggingConfig); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(loggingConfig.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if loggingConfig.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	var encoder zapcore.Encoder
	switch loggingConfig.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	sink := zapcore.AddSync(io.Discard)
	if len(loggingConfig.OutputPaths) > 0 {
		ws, closeSink, err := zap.Open(loggingConfig.OutputPaths...)
		if err != nil {
			return nil, err
		}
		sink = ws
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ws.Sync()
				closeSink()
				return nil
			},
		})
	}

	core := zapcore.NewCore(encoder, sink, level)

	var logger *zap.Logger
	if loggingConfig.Development {
		logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		logger = zap.New(core)
	}

	return logger.With(zap.String("session", uuid.Must(uuid.NewV4()).String())).Sugar(), nil
}
