// internal/config/crypto.go
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const masterKeyName = "__master_key__"

// masterKey is replaced in tests so no OS keyring is touched
var masterKey = GetMasterKey

// GetMasterKey retrieves or generates a master key from the keyring
func GetMasterKey() ([]byte, error) {
	ks, err := NewKeyringStore()
	if err != nil {
		return nil, err
	}

	keyHex, err := ks.Get(masterKeyName)
	if err == nil {
		return hex.DecodeString(keyHex)
	}

	// Generate new key
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}

	if err := ks.Set(masterKeyName, hex.EncodeToString(key)); err != nil {
		return nil, err
	}

	return key, nil
}

func encryptToken(token string) (string, error) {
	key, err := masterKey()
	if err != nil {
		return "", err
	}
	return Encrypt(token, key)
}

func decryptToken(encrypted string) (string, error) {
	key, err := masterKey()
	if err != nil {
		return "", err
	}
	return Decrypt(encrypted, key)
}

// Encrypt encrypts a string using AES-GCM
func Encrypt(plainText string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, []byte(plainText), nil)
	return hex.EncodeToString(cipherText), nil
}

// Decrypt decrypts a hex string using AES-GCM
func Decrypt(cipherTextHex string, key []byte) (string, error) {
	cipherText, err := hex.DecodeString(cipherTextHex)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(cipherText) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, actualCipherText := cipherText[:nonceSize], cipherText[nonceSize:]
	plainText, err := gcm.Open(nil, nonce, actualCipherText, nil)
	if err != nil {
		return "", err
	}

	return string(plainText), nil
}
