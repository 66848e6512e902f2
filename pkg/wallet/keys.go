package wallet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// PrivateKey is a node of a BIP32 derivation tree. Despite the name, a node
// obtained with Neuter carries only the public key and cannot derive
// hardened children.
type PrivateKey struct {
	key *hdkeychain.ExtendedKey
}

// MasterKey is the root node of the derivation tree of a wallet.
type MasterKey struct {
	*PrivateKey
}

// NewMasterKeyFromSeed returns the BIP32 master key of the given seed.
func NewMasterKeyFromSeed(seed []byte) (*MasterKey, error) {
	if len(seed) <= 0 {
		return nil, ErrNullSeed
	}
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedKeyMaterial, err)
	}
	return &MasterKey{&PrivateKey{key}}, nil
}

// NewPrivateKeyFromString parses a base58 extended key (xprv or xpub).
func NewPrivateKeyFromString(extendedKey string) (*PrivateKey, error) {
	key, err := hdkeychain.NewKeyFromString(extendedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedKeyMaterial, err)
	}
	return &PrivateKey{key}, nil
}

// Derive returns the child node at the given path, relative to k.
func (k *PrivateKey) Derive(path DerivationPath) (*PrivateKey, error) {
	if k == nil || k.key == nil {
		return nil, ErrNullPrivateKey
	}

	node := k.key
	for _, step := range path {
		child, err := node.Derive(step)
		if err != nil {
			if errors.Is(err, hdkeychain.ErrDeriveHardFromPublic) {
				return nil, ErrDeriveHardenedFromPublic
			}
			return nil, err
		}
		node = child
	}
	return &PrivateKey{node}, nil
}

// DeriveHardened is a shorthand for deriving the hardened child at index i.
func (k *PrivateKey) DeriveHardened(i uint32) (*PrivateKey, error) {
	if i > MaxHardenedValue {
		return nil, ErrInvalidDerivationPath
	}
	return k.Derive(DerivationPath{Hardened(i)})
}

// IsPrivate returns whether the node holds the private key.
func (k *PrivateKey) IsPrivate() bool {
	return k.key.IsPrivate()
}

// Raw returns the 32-byte (zero left-padded) private scalar of the node.
func (k *PrivateKey) Raw() ([]byte, error) {
	privkey, err := k.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return privkey.Serialize(), nil
}

// ChainCode returns the chain code of the node.
func (k *PrivateKey) ChainCode() []byte {
	return k.key.ChainCode()
}

// Depth returns the number of derivation steps from the master key.
func (k *PrivateKey) Depth() uint8 {
	return k.key.Depth()
}

// Index returns the child index this node was derived at.
func (k *PrivateKey) Index() uint32 {
	return k.key.ChildIndex()
}

// ECPrivKey returns the secp256k1 private key of the node.
func (k *PrivateKey) ECPrivKey() (*btcec.PrivateKey, error) {
	privkey, err := k.key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedKeyMaterial, err)
	}
	return privkey, nil
}

// PublicKey returns the secp256k1 public key of the node.
func (k *PrivateKey) PublicKey() (*btcec.PublicKey, error) {
	pubkey, err := k.key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedKeyMaterial, err)
	}
	return pubkey, nil
}

// Address returns the base58check P2PKH address of the compressed public key
// of the node.
func (k *PrivateKey) Address() (string, error) {
	pubkey, err := k.PublicKey()
	if err != nil {
		return "", err
	}
	return AddressFromPublicKey(pubkey)
}

// Neuter returns the public-only version of the node.
func (k *PrivateKey) Neuter() (*PrivateKey, error) {
	pubkey, err := k.key.Neuter()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedKeyMaterial, err)
	}
	return &PrivateKey{pubkey}, nil
}

// Xprv returns the base58 serialization of the extended private key.
func (k *PrivateKey) Xprv() string {
	return k.key.String()
}

// Xpub returns the base58 serialization of the extended public key.
func (k *PrivateKey) Xpub() (string, error) {
	xpub, err := k.Neuter()
	if err != nil {
		return "", err
	}
	return xpub.key.String(), nil
}

// Equal returns whether both nodes have same key material and position in
// the tree.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.key.String() == other.key.String()
}

// AddressFromPublicKey returns the mainnet P2PKH address of the given key.
func AddressFromPublicKey(pubkey *btcec.PublicKey) (string, error) {
	hash := btcutil.Hash160(pubkey.SerializeCompressed())
	addr, err := btcutil.NewAddressPubKeyHash(hash, &chaincfg.MainNetParams)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// TrimLeadingZeros returns the given private scalar without its leading zero
// bytes, matching how some legacy wallets serialized keys.
func TrimLeadingZeros(raw []byte) []byte {
	return bytes.TrimLeft(raw, "\x00")
}
