// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment, in increasing order of precedence.
//
// Environment variables map onto nested keys by splitting on underscores,
// so AUTH_TOKEN_SECRET sets auth.token.secret and DATABASE_DSN sets
// database.dsn.
//
// # Usage
//
//	var cfg app.Config
//	err := config.Load("companion", &cfg, config.WithConfigFile(path))
package config
