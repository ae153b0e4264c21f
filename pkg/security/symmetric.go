package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/openksef/go-ksef/pkg/model"
)

// SymmetricKey is the AES-256 key and CBC initialization vector a session
// uses for payload confidentiality. Generated once per session; the
// parameters are immutable after the session is opened.
type SymmetricKey struct {
	Key []byte
	IV  []byte
}

// GenerateSymmetricKey produces a fresh AES-256 key with a 16-byte IV
// from crypto/rand.
func GenerateSymmetricKey() (*SymmetricKey, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	return &SymmetricKey{Key: key, IV: iv}, nil
}

// EncryptionInfo wraps the key with the service's RSA public key
// (RSA-OAEP-SHA256) and encodes the declaration submitted at session open.
func (k *SymmetricKey) EncryptionInfo(serviceKey *rsa.PublicKey) (model.EncryptionInfo, error) {
	if serviceKey == nil {
		return model.EncryptionInfo{}, fmt.Errorf("service public key is required")
	}
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, serviceKey, k.Key, nil)
	if err != nil {
		return model.EncryptionInfo{}, fmt.Errorf("failed to wrap symmetric key: %w", err)
	}
	return model.EncryptionInfo{
		EncryptedSymmetricKey: base64.StdEncoding.EncodeToString(wrapped),
		InitializationVector:  base64.StdEncoding.EncodeToString(k.IV),
	}, nil
}

// Encrypt encrypts plaintext with AES-256-CBC and PKCS#7 padding using
// the session IV.
func (k *SymmetricKey) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(k.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, k.IV).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt reverses Encrypt. The service does the real decryption; this
// exists for local verification and tests.
func (k *SymmetricKey) Decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(k.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, k.IV).CryptBlocks(padded, ciphertext)
	return pkcs7Unpad(padded, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}
