package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig holds the server-side TLS settings for the HTTP listener.
// TLS is off unless CertFile and KeyFile are set.
type TLSConfig struct {
	// CertFile is the path to the PEM server certificate chain.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`

	// KeyFile is the path to the PEM private key for CertFile.
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// ClientCAFile enables mutual TLS: clients must present a certificate
	// signed by one of these CAs.
	ClientCAFile string `yaml:"client_ca_file" mapstructure:"client_ca_file"`

	// MinVersion is "1.2" or "1.3" (default: "1.2").
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`
}

// Enabled reports whether TLS is configured.
func (c *TLSConfig) Enabled() bool {
	return c != nil && c.CertFile != ""
}

// Validate checks that the configuration is consistent. It does not read files.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("tls: cert_file and key_file must be provided together")
	}
	if c.ClientCAFile != "" && c.CertFile == "" {
		return fmt.Errorf("tls: client_ca_file requires cert_file and key_file")
	}
	if _, err := c.minVersion(); err != nil {
		return err
	}
	return nil
}

// Build loads the certificates and returns a server *tls.Config, or nil
// when TLS is not enabled.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	minVersion, _ := c.minVersion()

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("tls: load server certificate: %w", err)
	}
	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}

	if c.ClientCAFile != "" {
		pool, err := loadCertPool(c.ClientCAFile)
		if err != nil {
			return nil, err
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, nil
}

// Describe returns a short summary for the startup log.
func (c *TLSConfig) Describe() string {
	switch {
	case !c.Enabled():
		return "tls=off"
	case c.ClientCAFile != "":
		return "tls=mutual"
	default:
		return "tls=on"
	}
}

func (c *TLSConfig) minVersion() (uint16, error) {
	switch c.MinVersion {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("tls: min_version must be 1.2 or 1.3 (got: %q)", c.MinVersion)
	}
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tls: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("tls: no certificates found in %s", path)
	}
	return pool, nil
}
