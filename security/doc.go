// Package security builds the TLS configuration for the HTTP listener.
//
//	cfg := security.TLSConfig{CertFile: "server.pem", KeyFile: "server-key.pem"}
//	tlsCfg, err := cfg.Build() // nil when TLS is off
package security
