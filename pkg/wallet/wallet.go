package wallet

import (
	"errors"
	"strings"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic is null")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed is null")
	// ErrNullMasterKey ...
	ErrNullMasterKey = errors.New("master key is null")
	// ErrNullPrivateKey ...
	ErrNullPrivateKey = errors.New("private key is null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPassword ...
	ErrNullPassword = errors.New("password must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullKey ...
	ErrNullKey = errors.New("encryption key must not be null")
	// ErrNullMessage ...
	ErrNullMessage = errors.New("message must not be null")
	// ErrNullSignature ...
	ErrNullSignature = errors.New("signature must not be null")
	// ErrNullAddress ...
	ErrNullAddress = errors.New("address must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrInvalidKeyLength ...
	ErrInvalidKeyLength = errors.New("encryption key must be 32 bytes long")
	// ErrInvalidIterations ...
	ErrInvalidIterations = errors.New("pbkdf2 iterations must be greater than zero")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("signature must be a 65 bytes base64 string")
	// ErrMalformedKeyMaterial ...
	ErrMalformedKeyMaterial = errors.New("malformed extended key material")
	// ErrDeriveHardenedFromPublic ...
	ErrDeriveHardenedFromPublic = errors.New(
		"cannot derive a hardened child from a public-only key",
	)
	// ErrDecryptionFailed ...
	ErrDecryptionFailed = errors.New("failed to decrypt cypher with given key")
	// ErrSignatureMismatch ...
	ErrSignatureMismatch = errors.New("signature does not match address")
)

// Wallet data structure holds the mnemonic of an HD wallet together with its
// BIP32 master key. It is meant to live in memory for the duration of a
// session only.
type Wallet struct {
	mnemonic  []string
	masterKey *MasterKey
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
}

func (o NewWalletOpts) validate() error {
	return NewMnemonicOpts{EntropySize: o.EntropySize}.validate()
}

// NewWallet creates a new wallet from a freshly generated random mnemonic.
// EntropySize defaults to 128 bits (12 words)
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mnemonic, err := NewMnemonic(NewMnemonicOpts{EntropySize: opts.EntropySize})
	if err != nil {
		return nil, err
	}

	return NewWalletFromMnemonic(NewWalletFromMnemonicOpts{Mnemonic: mnemonic})
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic method
type NewWalletFromMnemonicOpts struct {
	Mnemonic []string
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !IsMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic generates the BIP39 seed of the given mnemonic (with
// empty passphrase) and the corresponding BIP32 master key
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed := generateSeedFromMnemonic(opts.Mnemonic)
	masterKey, err := NewMasterKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}

	mnemonic := make([]string, len(opts.Mnemonic))
	copy(mnemonic, opts.Mnemonic)

	return &Wallet{
		mnemonic:  mnemonic,
		masterKey: masterKey,
	}, nil
}

// NewWalletFromEntropy is a shorthand for creating a wallet whose mnemonic
// encodes the given entropy
func NewWalletFromEntropy(entropy []byte) (*Wallet, error) {
	mnemonic, err := NewMnemonicFromEntropy(entropy)
	if err != nil {
		return nil, err
	}
	return NewWalletFromMnemonic(NewWalletFromMnemonicOpts{Mnemonic: mnemonic})
}

// Mnemonic is getter for the wallet mnemonic
func (w *Wallet) Mnemonic() []string {
	mnemonic := make([]string, len(w.mnemonic))
	copy(mnemonic, w.mnemonic)
	return mnemonic
}

// MnemonicString returns the mnemonic words joined by a single space
func (w *Wallet) MnemonicString() string {
	return strings.Join(w.mnemonic, " ")
}

// MasterKey is getter for the BIP32 master key
func (w *Wallet) MasterKey() *MasterKey {
	return w.masterKey
}

// NewMasterKeyFromMnemonic validates the given mnemonic and returns the BIP32
// master key of its BIP39 seed
func NewMasterKeyFromMnemonic(opts NewWalletFromMnemonicOpts) (*MasterKey, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return NewMasterKeyFromSeed(generateSeedFromMnemonic(opts.Mnemonic))
}
