package wallet

import (
	"bytes"
	"encoding/base64"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const messageMagic = "Bitcoin Signed Message:\n"

// MagicMessage returns varint(len(prefix))||prefix||varint(len(msg))||msg,
// the standard Bitcoin signed message envelope.
func MagicMessage(msg []byte) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer never fail
	_ = wire.WriteVarString(&buf, 0, messageMagic)
	_ = wire.WriteVarBytes(&buf, 0, msg)
	return buf.Bytes()
}

// MagicHash returns the double SHA256 of the magic message of msg.
func MagicHash(msg []byte) []byte {
	return chainhash.DoubleHashB(MagicMessage(msg))
}

// SignMessageOpts is the struct given to SignMessage method
type SignMessageOpts struct {
	Key     *PrivateKey
	Message []byte
}

func (o SignMessageOpts) validate() error {
	if o.Key == nil {
		return ErrNullPrivateKey
	}
	if len(o.Message) <= 0 {
		return ErrNullMessage
	}
	return nil
}

// SignMessage returns the base64 compact signature (recovery byte || r || s)
// of the magic hash of the given message.
func SignMessage(opts SignMessageOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	privkey, err := opts.Key.ECPrivKey()
	if err != nil {
		return "", err
	}
	sig := ecdsa.SignCompact(privkey, MagicHash(opts.Message), true)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyMessageOpts is the struct given to VerifyMessage method
type VerifyMessageOpts struct {
	Address   string
	Signature string
	Message   []byte
}

func (o VerifyMessageOpts) validate() error {
	if len(o.Address) <= 0 {
		return ErrNullAddress
	}
	if len(o.Signature) <= 0 {
		return ErrNullSignature
	}
	sig, err := base64.StdEncoding.DecodeString(o.Signature)
	if err != nil || len(sig) != 65 {
		return ErrInvalidSignature
	}
	if len(o.Message) <= 0 {
		return ErrNullMessage
	}
	return nil
}

// VerifyMessage recovers the public key from the signature and checks that
// its P2PKH address matches the given one.
func VerifyMessage(opts VerifyMessageOpts) error {
	if err := opts.validate(); err != nil {
		return err
	}

	sig, _ := base64.StdEncoding.DecodeString(opts.Signature)
	pubkey, _, err := ecdsa.RecoverCompact(sig, MagicHash(opts.Message))
	if err != nil {
		return ErrSignatureMismatch
	}
	addr, err := AddressFromPublicKey(pubkey)
	if err != nil {
		return err
	}
	if addr != opts.Address {
		return ErrSignatureMismatch
	}
	return nil
}
