// Package crypto encrypts member PII fields before they are written to Firestore.
//
// Ciphertext format: base64(hex(IV) + hex(AES-256-CBC(PKCS#7(plaintext)))).
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const keySize = 32

var (
	ErrInvalidKey        = errors.New("encryption key must be 32 bytes (AES-256) after base64 decoding")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// FieldCipher encrypts and decrypts individual string fields with one key.
type FieldCipher struct {
	key []byte
}

// NewFieldCipher decodes a base64 AES-256 key.
func NewFieldCipher(keyBase64 string) (*FieldCipher, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key from base64: %w", err)
	}
	if len(key) != keySize {
		return nil, ErrInvalidKey
	}
	return &FieldCipher{key: key}, nil
}

// Encrypt returns the ciphertext of plainText. Empty input stays empty so
// optional fields remain optional.
func (c *FieldCipher) Encrypt(plainText string) (string, error) {
	if plainText == "" {
		return "", nil
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	data := []byte(plainText)
	padding := aes.BlockSize - len(data)%aes.BlockSize
	data = append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)

	combined := hex.EncodeToString(iv) + hex.EncodeToString(out)
	return base64.StdEncoding.EncodeToString([]byte(combined)), nil
}

// Decrypt reverses Encrypt.
func (c *FieldCipher) Decrypt(cipherText string) (string, error) {
	if cipherText == "" {
		return "", nil
	}
	combined, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return "", fmt.Errorf("%w: base64: %v", ErrInvalidCiphertext, err)
	}
	const ivHexLen = aes.BlockSize * 2
	if len(combined) < ivHexLen {
		return "", fmt.Errorf("%w: too short to contain IV", ErrInvalidCiphertext)
	}

	iv, err := hex.DecodeString(string(combined[:ivHexLen]))
	if err != nil {
		return "", fmt.Errorf("%w: IV hex: %v", ErrInvalidCiphertext, err)
	}
	data, err := hex.DecodeString(string(combined[ivHexLen:]))
	if err != nil {
		return "", fmt.Errorf("%w: body hex: %v", ErrInvalidCiphertext, err)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: not a multiple of the block size", ErrInvalidCiphertext)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)

	padding := int(out[len(out)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(out) {
		return "", fmt.Errorf("%w: bad padding", ErrInvalidCiphertext)
	}
	for _, b := range out[len(out)-padding:] {
		if int(b) != padding {
			return "", fmt.Errorf("%w: bad padding", ErrInvalidCiphertext)
		}
	}
	return string(out[:len(out)-padding]), nil
}

// Mask hides all but the last four characters, for showing contact numbers
// to members who are not allowed to read them in full.
func Mask(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return s
	}
	return string(bytes.Repeat([]byte{'*'}, len(r)-4)) + string(r[len(r)-4:])
}
