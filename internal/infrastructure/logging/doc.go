// Package logging provides structured logging using uber/zap.
//
// This package offers two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components receive a named *zap.Logger from Component and never reach
// for a global logger, so tests can inject zap.NewNop or an observer core.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level})
//	log := logger.Component("launcher")
//	log.Info("Session started", zap.String("project", name))
//	log.Error("Launch failed", zap.Error(err))
package logging
