// Package crypto implements the cryptographic primitives of the MRA
// e-invoicing exchange: AES key generation, AES-ECB key wrapping and invoice
// payload encryption, and RSA PKCS#1 v1.5 encryption of the token-request
// payload.
//
// All functions return structured CryptoError values that the HTTP layer
// maps to responses.
package crypto
