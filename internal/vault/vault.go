// Package vault seals the raw phrase set under a passphrase.
//
// Keys come from PBKDF2-HMAC-SHA256 with a fresh random salt on every call and
// the data is sealed with AES-256-GCM under a fresh random nonce. Derived keys
// are zeroed once the call returns.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/verte-zerg/seedaudit/internal/model"
)

const (
	SaltSize   = 16
	NonceSize  = 12
	KeySize    = 32
	Iterations = 200_000
)

// ErrInvalidBlob marks a blob with malformed salt or nonce.
var ErrInvalidBlob = errors.New("invalid encrypted blob")

// Reader is the randomness source for salts and nonces.
var Reader io.Reader = rand.Reader

// Capability records whether authenticated encryption works in this process.
type Capability struct {
	AEAD bool
	Err  error
}

// Probe runs a one-off AEAD self test. Call it once at startup and pass the
// result along.
func Probe() Capability {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(Reader, key); err != nil {
		return Capability{Err: fmt.Errorf("random source: %w", err)}
	}
	defer zero(key)
	aead, err := newAEAD(key)
	if err != nil {
		return Capability{Err: err}
	}
	nonce := make([]byte, aead.NonceSize())
	probe := []byte("seedaudit")
	sealed := aead.Seal(nil, nonce, probe, nil)
	opened, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil || string(opened) != string(probe) {
		return Capability{Err: fmt.Errorf("aead self test failed")}
	}
	return Capability{AEAD: true}
}

// DeriveKey derives a KeySize key from passphrase and salt.
func DeriveKey(passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, Iterations, KeySize, sha256.New)
}

// Encrypt seals plaintext under a key derived from passphrase.
func Encrypt(plaintext, passphrase []byte) (model.EncryptedBlob, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(Reader, salt); err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(Reader, nonce); err != nil {
		return model.EncryptedBlob{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key := DeriveKey(passphrase, salt)
	defer zero(key)
	aead, err := newAEAD(key)
	if err != nil {
		return model.EncryptedBlob{}, err
	}
	return model.EncryptedBlob{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Decrypt opens a blob produced by Encrypt. Any tag mismatch returns an
// ErrAuthFailed error and no plaintext.
func Decrypt(blob model.EncryptedBlob, passphrase []byte) ([]byte, error) {
	if len(blob.Salt) < SaltSize {
		return nil, fmt.Errorf("%w: salt is %d bytes, want at least %d", ErrInvalidBlob, len(blob.Salt), SaltSize)
	}
	if len(blob.Nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrInvalidBlob, len(blob.Nonce), NonceSize)
	}

	key := DeriveKey(passphrase, blob.Salt)
	defer zero(key)
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, blob.Nonce, blob.Ciphertext, nil)
	if err != nil {
		return nil, &model.OpError{Op: "vault.decrypt", Kind: model.KindAuthFailed, Err: err}
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init gcm: %w", err)
	}
	return aead, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
