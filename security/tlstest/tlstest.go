// Package tlstest writes a throwaway CA and a localhost certificate into
// t.TempDir() for tests that serve or dial TLS.
//
//	certs := tlstest.GenerateTLSCerts(t)
//	cfg := security.TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}
package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TLSCerts points at the generated PEM files. The leaf certificate is valid
// for both server and client auth, so one set covers mutual TLS.
type TLSCerts struct {
	CAFile   string
	CertFile string
	KeyFile  string

	ServerTLS tls.Certificate
	CertPool  *x509.CertPool
}

type signed struct {
	cert *x509.Certificate
	key  *ecdsa.PrivateKey
	der  []byte
}

// sign creates a P-256 key and a certificate for tmpl, signed by parent.
// A nil parent self-signs.
func sign(t testing.TB, tmpl *x509.Certificate, parent *signed) *signed {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate key for %s: %v", tmpl.Subject.CommonName, err)
	}
	issuer, signer := tmpl, key
	if parent != nil {
		issuer, signer = parent.cert, parent.key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer, &key.PublicKey, signer)
	if err != nil {
		t.Fatalf("tlstest: sign %s: %v", tmpl.Subject.CommonName, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("tlstest: parse %s: %v", tmpl.Subject.CommonName, err)
	}
	return &signed{cert: cert, key: key, der: der}
}

// GenerateTLSCerts creates a CA and a certificate it signs for localhost,
// 127.0.0.1 and ::1.
func GenerateTLSCerts(t testing.TB) *TLSCerts {
	t.Helper()
	dir := t.TempDir()
	notBefore, notAfter := time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour)

	ca := sign(t, &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Companion Test CA"},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}, nil)

	leaf := sign(t, &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}, ca)

	keyDER, err := x509.MarshalECPrivateKey(leaf.key)
	if err != nil {
		t.Fatalf("tlstest: marshal key: %v", err)
	}

	certs := &TLSCerts{
		CAFile:   writePEM(t, dir, "ca.pem", "CERTIFICATE", ca.der),
		CertFile: writePEM(t, dir, "cert.pem", "CERTIFICATE", leaf.der),
		KeyFile:  writePEM(t, dir, "key.pem", "EC PRIVATE KEY", keyDER),
		CertPool: x509.NewCertPool(),
	}
	certs.CertPool.AddCert(ca.cert)
	if certs.ServerTLS, err = tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile); err != nil {
		t.Fatalf("tlstest: load key pair: %v", err)
	}
	return certs
}

// WriteInvalidPEM writes a file that looks like PEM but holds no certificate.
func WriteInvalidPEM(t testing.TB, filename string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	content := []byte("-----BEGIN CERTIFICATE-----\nnot-valid-base64-data\n-----END CERTIFICATE-----\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("tlstest: write %s: %v", path, err)
	}
	return path
}

func writePEM(t testing.TB, dir, name, blockType string, der []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("tlstest: write %s: %v", path, err)
	}
	return path
}
