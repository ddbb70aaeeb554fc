// this file implements the symmetric operations of the MRA key exchange.
//
// The MRA protocol wraps short key values with AES-256 in ECB mode
// (PKCS#7 padding, no IV). ECB leaks block-level patterns on longer
// plaintexts, so the operations here are deliberately narrow: UnwrapKey and
// WrapKey handle single key values, and EncryptInvoicePayload covers the one
// authority-mandated channel that encrypts a full invoice array. There is no
// general-purpose encrypt/decrypt API in this package.

package crypto

import (
	"crypto/aes"
	"crypto/rand"
	"fmt"
)

// KeySize is the size in bytes of generated AES keys (AES-256).
const KeySize = 32

// GenerateKey returns a fresh 256-bit AES key from the system entropy source.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, WrapInternalError(err, "failed to read from entropy source")
	}
	return key, nil
}

// UnwrapKey decrypts an AES-ECB wrapped key value and returns the plaintext
// as a UTF-8 string.
//
// The MRA token service encrypts the session key it issues with the AES key
// supplied by the caller during token generation, so the caller's original
// key is the unwrapping key here.
func UnwrapKey(ciphertext, key []byte) (string, error) {
	plaintext, err := ecbDecrypt(ciphertext, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// WrapKey is the inverse of UnwrapKey: it AES-ECB encrypts a key value under
// the given key. It exists so the full key exchange can be exercised end to
// end without the authority.
func WrapKey(value string, key []byte) ([]byte, error) {
	return ecbEncrypt([]byte(value), key)
}

// EncryptInvoicePayload encrypts the serialized invoice array with the
// session key recovered from the token exchange. Same cipher and padding as
// the key wrap, per the authority's transmission contract.
func EncryptInvoicePayload(plaintext, key []byte) ([]byte, error) {
	return ecbEncrypt(plaintext, key)
}

func ecbEncrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, WrapValidationError(err, fmt.Sprintf("invalid AES key length %d", len(key)))
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())

	ciphertext := make([]byte, len(padded))
	for start := 0; start < len(padded); start += block.BlockSize() {
		block.Encrypt(ciphertext[start:start+block.BlockSize()], padded[start:start+block.BlockSize()])
	}
	return ciphertext, nil
}

func ecbDecrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, WrapValidationError(err, fmt.Sprintf("invalid AES key length %d", len(key)))
	}

	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, NewValidationError(fmt.Sprintf("ciphertext length %d is not a multiple of the AES block size", len(ciphertext)))
	}

	plaintext := make([]byte, len(ciphertext))
	for start := 0; start < len(ciphertext); start += block.BlockSize() {
		block.Decrypt(plaintext[start:start+block.BlockSize()], ciphertext[start:start+block.BlockSize()])
	}

	return pkcs7Unpad(plaintext, block.BlockSize())
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, NewCipherError("decrypted data has invalid length")
	}

	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > blockSize {
		return nil, NewCipherError("decrypted data has invalid padding")
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, NewCipherError("decrypted data has invalid padding")
		}
	}
	return data[:len(data)-padLen], nil
}
