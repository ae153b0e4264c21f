package security

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// EncryptionMethod selects the public-key scheme for token encryption.
type EncryptionMethod string

const (
	// MethodRSA uses RSA-OAEP with SHA-256.
	MethodRSA EncryptionMethod = "rsa"
	// MethodECDSA uses ephemeral ECDH over the service's P-256 key with
	// HKDF-SHA256 key derivation and AES-256-GCM.
	MethodECDSA EncryptionMethod = "ecdsa"
)

// hkdfInfo binds derived keys to this protocol.
var hkdfInfo = []byte("KSEF-TOKEN-ENCRYPTION")

// TokenEncryptor encrypts the shared-secret token proof with the
// service's published public key.
type TokenEncryptor struct {
	publicKey crypto.PublicKey
}

// NewTokenEncryptor creates an encryptor for the given service public key.
func NewTokenEncryptor(publicKey crypto.PublicKey) *TokenEncryptor {
	return &TokenEncryptor{publicKey: publicKey}
}

// EncryptWithPublicKey encrypts plaintext with the selected method. The
// method must match the key type of the service's published key.
func (e *TokenEncryptor) EncryptWithPublicKey(plaintext []byte, method EncryptionMethod) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("plaintext must not be empty")
	}

	switch method {
	case MethodRSA:
		key, ok := e.publicKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("RSA encryption requires an RSA public key, got %T", e.publicKey)
		}
		ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, key, plaintext, nil)
		if err != nil {
			return nil, fmt.Errorf("RSA-OAEP encryption failed: %w", err)
		}
		return ciphertext, nil

	case MethodECDSA:
		key, ok := e.publicKey.(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("ECDSA encryption requires an EC public key, got %T", e.publicKey)
		}
		return encryptECDH(key, plaintext)

	default:
		return nil, fmt.Errorf("unsupported encryption method: %s", method)
	}
}

// encryptECDH performs ephemeral ECDH key agreement with the recipient
// key, derives an AES-256 key via HKDF-SHA256 and seals the plaintext
// with AES-GCM. Output layout: ephemeral public key (uncompressed point),
// GCM nonce, ciphertext.
func encryptECDH(recipient *ecdsa.PublicKey, plaintext []byte) ([]byte, error) {
	recipientECDH, err := recipient.ECDH()
	if err != nil {
		return nil, fmt.Errorf("invalid recipient key: %w", err)
	}

	ephemeral, err := recipientECDH.Curve().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	sharedSecret, err := ephemeral.ECDH(recipientECDH)
	if err != nil {
		return nil, fmt.Errorf("ECDH agreement failed: %w", err)
	}

	hkdfReader := hkdf.New(sha256.New, sharedSecret, nil, hkdfInfo)
	derivedKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdfReader, derivedKey); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ephemeralPublic := ephemeral.PublicKey().Bytes()
	sealed := aesgcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, len(ephemeralPublic)+len(nonce)+len(sealed))
	out = append(out, ephemeralPublic...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// ParseECDHEnvelope splits an ECDH envelope back into its components.
// Exposed for interoperability tooling and tests; decryption requires the
// service's private key and never happens in this client.
func ParseECDHEnvelope(curve ecdh.Curve, envelope []byte) (ephemeralPublic *ecdh.PublicKey, nonce, ciphertext []byte, err error) {
	// Uncompressed P-256 points are 65 bytes; GCM nonces are 12.
	probe, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, nil, err
	}
	pointLen := len(probe.PublicKey().Bytes())
	const nonceLen = 12

	if len(envelope) < pointLen+nonceLen+1 {
		return nil, nil, nil, fmt.Errorf("envelope too short: %d bytes", len(envelope))
	}
	ephemeralPublic, err = curve.NewPublicKey(envelope[:pointLen])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid ephemeral key: %w", err)
	}
	nonce = envelope[pointLen : pointLen+nonceLen]
	ciphertext = envelope[pointLen+nonceLen:]
	return ephemeralPublic, nonce, ciphertext, nil
}
