package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

var (
	// ScryptN is the CPU/memory cost parameter used by DeriveKey.
	// 2^20 = 1048576 recommended length for key-stretching
	// check the doc for other recommended values:
	// https://godoc.org/golang.org/x/crypto/scrypt
	ScryptN = 1048576

	// randReader is the source of IVs, salts and padding filler.
	randReader io.Reader = rand.Reader
)

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText  string
	Passphrase string
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Encrypt encrypts (with AES-256-GCM) a plaintext with a key stretched from
// the provided passphrase
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	key, salt, err := DeriveKey([]byte(opts.Passphrase), nil)
	if err != nil {
		return "", err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(randReader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(opts.PlainText), nil)
	ciphertext = append(ciphertext, salt...)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	CypherText string
	Passphrase string
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if _, err := base64.StdEncoding.DecodeString(o.CypherText); err != nil {
		return ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Decrypt decrypts (with AES-256-GCM) a cyphertext with the provided passphrase
func Decrypt(opts DecryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	data, _ := base64.StdEncoding.DecodeString(opts.CypherText)
	if len(data) < 32+12 {
		return "", ErrInvalidCypherText
	}
	salt, data := data[len(data)-32:], data[:len(data)-32]

	key, _, err := DeriveKey([]byte(opts.Passphrase), salt)
	if err != nil {
		return "", err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return "", err
	}
	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, text, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// DeriveKey derives a 32 byte array key from a custom passhprase
func DeriveKey(passphrase, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, 32)
		if _, err := io.ReadFull(randReader, salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(passphrase, salt, ScryptN, 8, 1, 32)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

// EncryptWithKeyOpts is the struct given to EncryptWithKey method
type EncryptWithKeyOpts struct {
	PlainText string
	Key       []byte
}

func (o EncryptWithKeyOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Key) <= 0 {
		return ErrNullKey
	}
	if len(o.Key) != 32 {
		return ErrInvalidKeyLength
	}
	return nil
}

// EncryptWithKey encrypts the plaintext with AES-256-CBC and ISO10126
// padding. The result is the base64 encoding of IV||cyphertext, with a
// random 16-byte IV.
func EncryptWithKey(opts EncryptWithKeyOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	return encryptCBC([]byte(opts.PlainText), opts.Key)
}

// DecryptWithKeyOpts is the struct given to DecryptWithKey method
type DecryptWithKeyOpts struct {
	CypherText string
	Key        []byte
}

func (o DecryptWithKeyOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if len(o.Key) <= 0 {
		return ErrNullKey
	}
	if len(o.Key) != 32 {
		return ErrInvalidKeyLength
	}
	return nil
}

// DecryptWithKey is the inverse of EncryptWithKey. Any malformed cypher,
// including a bad padding, results in ErrDecryptionFailed.
func DecryptWithKey(opts DecryptWithKeyOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	plaintext, err := decryptCBC(opts.CypherText, opts.Key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptWithPasswordOpts is the struct given to EncryptWithPassword method
type EncryptWithPasswordOpts struct {
	PlainText  string
	Password   string
	Iterations int
}

func (o EncryptWithPasswordOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Password) <= 0 {
		return ErrNullPassword
	}
	if o.Iterations <= 0 {
		return ErrInvalidIterations
	}
	return nil
}

// EncryptWithPassword encrypts the plaintext with AES-256-CBC and ISO10126
// padding, with a key derived by PBKDF2-HMAC-SHA1 from the password. The
// random IV is used also as salt for the key derivation.
func EncryptWithPassword(opts EncryptWithPasswordOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(opts.Password), iv, opts.Iterations, 32, sha1.New)

	return encryptCBCWithIV([]byte(opts.PlainText), key, iv)
}

// DecryptWithPasswordOpts is the struct given to DecryptWithPassword method
type DecryptWithPasswordOpts struct {
	CypherText string
	Password   string
	Iterations int
}

func (o DecryptWithPasswordOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if len(o.Password) <= 0 {
		return ErrNullPassword
	}
	if o.Iterations <= 0 {
		return ErrInvalidIterations
	}
	return nil
}

// DecryptWithPassword is the inverse of EncryptWithPassword.
func DecryptWithPassword(opts DecryptWithPasswordOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(opts.CypherText)
	if err != nil || len(data) < aes.BlockSize {
		return "", ErrDecryptionFailed
	}
	key := pbkdf2.Key(
		[]byte(opts.Password), data[:aes.BlockSize], opts.Iterations, 32, sha1.New,
	)

	plaintext, err := decryptCBC(opts.CypherText, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func encryptCBC(plaintext, key []byte) (string, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return "", err
	}
	return encryptCBCWithIV(plaintext, key, iv)
}

func encryptCBCWithIV(plaintext, key, iv []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded, err := padISO10126(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}

	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

func decryptCBC(cypherText string, key []byte) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(cypherText)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	// at least the IV plus one block
	if len(data) < 2*aes.BlockSize || len(data)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv, ct := data[:aes.BlockSize], data[aes.BlockSize:]
	plaintext := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ct)

	return unpadISO10126(plaintext, aes.BlockSize)
}

// padISO10126 fills the last block with random bytes, the last one being the
// number of padding bytes added.
func padISO10126(data []byte, blockSize int) ([]byte, error) {
	padLen := blockSize - len(data)%blockSize
	padding := make([]byte, padLen)
	if _, err := io.ReadFull(randReader, padding[:padLen-1]); err != nil {
		return nil, err
	}
	padding[padLen-1] = byte(padLen)
	return append(append([]byte{}, data...), padding...), nil
}

func unpadISO10126(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrDecryptionFailed
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrDecryptionFailed
	}
	return data[:len(data)-padLen], nil
}
