package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewTee creates a logger that writes to config.OutputPath like New and mirrors
// entries at consoleLevel and above to console in human-readable form.
// A nil console or an empty consoleLevel disables the mirror.
func NewTee(config Config, console io.Writer, consoleLevel string) (*zap.Logger, error) {
	if console == nil || consoleLevel == "" {
		return New(config)
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	writer, err := openWriter(config.OutputPath)
	if err != nil {
		return nil, err
	}

	mirrorLevel, err := zapcore.ParseLevel(consoleLevel)
	if err != nil {
		mirrorLevel = zapcore.WarnLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(newEncoder(config.Format), writer, level),
		zapcore.NewCore(newEncoder("console"), zapcore.AddSync(console), mirrorLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
