// this file contains functions to load the authority's RSA public key and
// encrypt the token-request payload with it.
//
// The MRA distributes its public key as an X.509 certificate (PEM). PKCS#1
// v1.5 padding is pinned: the token service rejects OAEP ciphertexts.

package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// LoadPublicKeyFromFile reads a PEM file and returns the RSA public key it
// contains. Both certificate and bare public key PEM blocks are accepted.
func LoadPublicKeyFromFile(path string) (*rsa.PublicKey, error) {
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapKeyManagementError(err, fmt.Sprintf("failed to read public key file %s", path))
	}
	return ParsePublicKey(pemData)
}

// ParsePublicKey parses a PEM-encoded RSA public key. Supported block types
// are CERTIFICATE, PUBLIC KEY (PKIX) and RSA PUBLIC KEY (PKCS#1).
func ParsePublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, NewKeyManagementError("no PEM block found in public key material")
	}

	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, WrapKeyManagementError(err, "failed to parse certificate")
		}
		rsaKey, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, NewKeyManagementError(fmt.Sprintf("certificate holds a %T, want an RSA public key", cert.PublicKey))
		}
		return rsaKey, nil

	case "PUBLIC KEY":
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, WrapKeyManagementError(err, "failed to parse PKIX public key")
		}
		rsaKey, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, NewKeyManagementError(fmt.Sprintf("PEM holds a %T, want an RSA public key", parsed))
		}
		return rsaKey, nil

	case "RSA PUBLIC KEY":
		rsaKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, WrapKeyManagementError(err, "failed to parse PKCS#1 public key")
		}
		return rsaKey, nil

	default:
		return nil, NewKeyManagementError(fmt.Sprintf("unsupported PEM block type %q", block.Type))
	}
}

// EncryptPKCS1v15 encrypts the payload with the authority public key using
// PKCS#1 v1.5 padding.
func EncryptPKCS1v15(payload []byte, publicKey *rsa.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, NewKeyManagementError("no RSA public key configured")
	}

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, publicKey, payload)
	if err != nil {
		return nil, WrapCipherError(err, "RSA encryption failed")
	}
	return ciphertext, nil
}
