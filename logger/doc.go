// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and request-scoped fields (request id, caller id, trace ids).
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "companion").WithComponent("accounts")
//	log.Info("account created", logger.Fields("user_id", id))
//
// Passwords, password digests and tokens are never passed to a logger.
package logger
