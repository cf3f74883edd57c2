package tlsspec

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadTrustAnchors builds a TrustAnchors set from a PEM file and/or
// directory of PEM-or-CRT files, mirroring how the teacher's
// BuildRootCAPool merges a caFile/caDir into a single *x509.CertPool. Here
// the result feeds CleanChain directly instead of crypto/tls, since the
// chain cleaner performs its own path building rather than delegating to
// (*x509.CertPool).Verify.
func LoadTrustAnchors(caFile, caDir string) (TrustAnchors, error) {
	var certs []*x509.Certificate

	if caFile != "" {
		data, err := os.ReadFile(caFile)
		if err != nil {
			return TrustAnchors{}, fmt.Errorf("tlsspec: read %q: %w", caFile, err)
		}
		parsed, err := parsePEMCertificates(data)
		if err != nil {
			return TrustAnchors{}, fmt.Errorf("tlsspec: %q: %w", caFile, err)
		}
		certs = append(certs, parsed...)
	}

	if caDir != "" {
		entries, err := os.ReadDir(caDir)
		if err != nil {
			return TrustAnchors{}, fmt.Errorf("tlsspec: read dir %q: %w", caDir, err)
		}
		for _, e := range entries {
			if e.IsDir() || e.Type()&os.ModeSymlink != 0 {
				continue
			}
			lower := strings.ToLower(e.Name())
			if !strings.HasSuffix(lower, ".pem") && !strings.HasSuffix(lower, ".crt") {
				continue
			}
			path := filepath.Join(caDir, e.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return TrustAnchors{}, fmt.Errorf("tlsspec: read %q: %w", path, err)
			}
			parsed, err := parsePEMCertificates(data)
			if err != nil {
				return TrustAnchors{}, fmt.Errorf("tlsspec: %q: %w", path, err)
			}
			certs = append(certs, parsed...)
		}
	}

	return NewTrustAnchors(certs...), nil
}

func parsePEMCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("no valid PEM certificates found")
	}
	return certs, nil
}
