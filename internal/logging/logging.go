package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger. Anything other than "prod"/"production"
// gets the human-readable development encoder.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Nop returns a logger that discards everything. Used by tests and as a
// default when a component is constructed without one.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
