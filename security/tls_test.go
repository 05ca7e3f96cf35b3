package security

import (
	"crypto/tls"
	"strings"
	"testing"

	"github.com/kbukum/companion/security/tlstest"
)

func TestTLSConfig_Disabled(t *testing.T) {
	var nilCfg *TLSConfig
	for _, cfg := range []*TLSConfig{nilCfg, {}} {
		got, err := cfg.Build()
		if err != nil || got != nil {
			t.Errorf("expected nil config, got %v, %v", got, err)
		}
		if cfg.Enabled() {
			t.Error("expected disabled")
		}
		if cfg.Describe() != "tls=off" {
			t.Errorf("Describe = %q", cfg.Describe())
		}
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TLSConfig
		wantErr string
	}{
		{"cert without key", TLSConfig{CertFile: "c.pem"}, "together"},
		{"key without cert", TLSConfig{KeyFile: "k.pem"}, "together"},
		{"client ca without cert", TLSConfig{ClientCAFile: "ca.pem"}, "requires cert_file"},
		{"bad version", TLSConfig{CertFile: "c.pem", KeyFile: "k.pem", MinVersion: "1.1"}, "min_version"},
		{"ok", TLSConfig{CertFile: "c.pem", KeyFile: "k.pem", MinVersion: "1.3"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTLSConfig_BuildServer(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	cfg := &TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}

	got, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got.Certificates) != 1 {
		t.Errorf("expected one certificate, got %d", len(got.Certificates))
	}
	if got.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected TLS 1.2 minimum, got %x", got.MinVersion)
	}
	if got.ClientAuth != tls.NoClientCert {
		t.Error("client certs must not be required without client_ca_file")
	}
	if cfg.Describe() != "tls=on" {
		t.Errorf("Describe = %q", cfg.Describe())
	}
}

func TestTLSConfig_BuildMutual(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	cfg := &TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile, ClientCAFile: certs.CAFile, MinVersion: "1.3"}

	got, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got.ClientAuth != tls.RequireAndVerifyClientCert || got.ClientCAs == nil {
		t.Error("expected mutual TLS")
	}
	if got.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected TLS 1.3 minimum, got %x", got.MinVersion)
	}
	if cfg.Describe() != "tls=mutual" {
		t.Errorf("Describe = %q", cfg.Describe())
	}
}

func TestTLSConfig_BuildErrors(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)

	_, err := (&TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}).Build()
	if err == nil || !strings.Contains(err.Error(), "load server certificate") {
		t.Errorf("expected load error, got %v", err)
	}

	bad := tlstest.WriteInvalidPEM(t, "ca.pem")
	_, err = (&TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile, ClientCAFile: bad}).Build()
	if err == nil || !strings.Contains(err.Error(), "no certificates") {
		t.Errorf("expected CA parse error, got %v", err)
	}
}
