package logger

import "go.uber.org/zap"

// New builds the process logger: structured JSON in production, console
// output otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
