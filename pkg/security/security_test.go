package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"io"
	"testing"

	"golang.org/x/crypto/hkdf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSATokenEncryptionRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	encryptor := NewTokenEncryptor(&key.PublicKey)
	plaintext := []byte("secret-token|1694102400000")

	ciphertext, err := encryptor.EncryptWithPublicKey(plaintext, MethodRSA)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, key, ciphertext, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestRSAEncryptionRejectsWrongKeyType(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	encryptor := NewTokenEncryptor(&ecKey.PublicKey)
	_, err = encryptor.EncryptWithPublicKey([]byte("x"), MethodRSA)
	assert.Error(t, err)
}

func TestECDHTokenEncryptionRoundTrip(t *testing.T) {
	serviceKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	encryptor := NewTokenEncryptor(&serviceKey.PublicKey)
	plaintext := []byte("secret-token|1694102400000")

	envelope, err := encryptor.EncryptWithPublicKey(plaintext, MethodECDSA)
	require.NoError(t, err)

	// Decrypt the way the service would: recover the shared secret from
	// the ephemeral key and the service private key.
	ephemeralPub, nonce, sealed, err := ParseECDHEnvelope(ecdh.P256(), envelope)
	require.NoError(t, err)

	servicePriv, err := serviceKey.ECDH()
	require.NoError(t, err)
	sharedSecret, err := servicePriv.ECDH(ephemeralPub)
	require.NoError(t, err)

	derivedKey := make([]byte, 32)
	_, err = io.ReadFull(hkdf.New(sha256.New, sharedSecret, nil, hkdfInfo), derivedKey)
	require.NoError(t, err)

	block, err := aes.NewCipher(derivedKey)
	require.NoError(t, err)
	aesgcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	decrypted, err := aesgcm.Open(nil, nonce, sealed, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptRejectsEmptyPlaintext(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	encryptor := NewTokenEncryptor(&key.PublicKey)
	_, err = encryptor.EncryptWithPublicKey(nil, MethodRSA)
	assert.Error(t, err)
}

func TestEncryptRejectsUnknownMethod(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	encryptor := NewTokenEncryptor(&key.PublicKey)
	_, err = encryptor.EncryptWithPublicKey([]byte("x"), EncryptionMethod("des"))
	assert.Error(t, err)
}

func TestSymmetricKeyGeneration(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)
	assert.Len(t, key.Key, 32)
	assert.Len(t, key.IV, aes.BlockSize)

	other, err := GenerateSymmetricKey()
	require.NoError(t, err)
	assert.NotEqual(t, key.Key, other.Key)
}

func TestSymmetricEncryptionRoundTrip(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	for _, plaintext := range [][]byte{
		[]byte("<Faktura/>"),
		bytes.Repeat([]byte("a"), aes.BlockSize), // exact block boundary
		{0x00},
	} {
		ciphertext, err := key.Encrypt(plaintext)
		require.NoError(t, err)
		assert.Zero(t, len(ciphertext)%aes.BlockSize)

		decrypted, err := key.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptionInfoWrapsKey(t *testing.T) {
	serviceKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	info, err := key.EncryptionInfo(&serviceKey.PublicKey)
	require.NoError(t, err)
	assert.NotEmpty(t, info.EncryptedSymmetricKey)
	assert.NotEmpty(t, info.InitializationVector)
}

func TestEncryptionInfoRequiresServiceKey(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	_, err = key.EncryptionInfo(nil)
	assert.Error(t, err)
}
