package crypto

import (
	"encoding/base64"
	"errors"
	"testing"
)

const testKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=" // "0123456789abcdef0123456789abcdef"

func TestNewFieldCipher(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid 32 byte key", testKey, false},
		{"not base64", "%%%", true},
		{"short key", base64.StdEncoding.EncodeToString([]byte("short")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFieldCipher(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFieldCipher() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncryptDecrypt(t *testing.T) {
	c, err := NewFieldCipher(testKey)
	if err != nil {
		t.Fatalf("NewFieldCipher() error = %v", err)
	}

	for _, plain := range []string{"09171234567", "exactly16bytes!!", "ñ unicode ✓"} {
		enc, err := c.Encrypt(plain)
		if err != nil {
			t.Fatalf("Encrypt(%q) error = %v", plain, err)
		}
		if enc == plain {
			t.Fatalf("Encrypt(%q) returned plaintext", plain)
		}
		dec, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if dec != plain {
			t.Errorf("Decrypt() = %q, want %q", dec, plain)
		}
	}
}

func TestEncryptUsesFreshIV(t *testing.T) {
	c, _ := NewFieldCipher(testKey)
	a, _ := c.Encrypt("same input")
	b, _ := c.Encrypt("same input")
	if a == b {
		t.Error("two encryptions of the same input produced identical ciphertext")
	}
}

func TestEmptyFieldsPassThrough(t *testing.T) {
	c, _ := NewFieldCipher(testKey)
	if enc, err := c.Encrypt(""); err != nil || enc != "" {
		t.Errorf("Encrypt(\"\") = %q, %v", enc, err)
	}
	if dec, err := c.Decrypt(""); err != nil || dec != "" {
		t.Errorf("Decrypt(\"\") = %q, %v", dec, err)
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	c, _ := NewFieldCipher(testKey)
	for _, in := range []string{
		"not base64!",
		base64.StdEncoding.EncodeToString([]byte("abc")),
		base64.StdEncoding.EncodeToString([]byte("00112233445566778899aabbccddeeff" + "zz")),
		base64.StdEncoding.EncodeToString([]byte("00112233445566778899aabbccddeeff" + "0011")),
	} {
		if _, err := c.Decrypt(in); !errors.Is(err, ErrInvalidCiphertext) {
			t.Errorf("Decrypt(%q) error = %v, want ErrInvalidCiphertext", in, err)
		}
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"1234":        "1234",
		"09171234567": "*******4567",
	}
	for in, want := range tests {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
