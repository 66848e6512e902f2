package metadata

import (
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

// SignedText returns payload||prevMagicHash, the text signed by the writer
// of an entry. The signed digest is therefore Magic(payload, prevMagicHash).
func SignedText(payload, prevMagicHash []byte) []byte {
	buf := make([]byte, 0, len(payload)+len(prevMagicHash))
	buf = append(buf, payload...)
	return append(buf, prevMagicHash...)
}

// Message binds the payload to the previous magic hash of the chain, if
// any, using the Bitcoin signed message envelope.
func Message(payload, prevMagicHash []byte) []byte {
	return wallet.MagicMessage(SignedText(payload, prevMagicHash))
}

// Magic returns the double sha256 of Message. The result is the
// prev_magic_hash of the next entry written at the same address.
func Magic(payload, prevMagicHash []byte) []byte {
	return wallet.MagicHash(SignedText(payload, prevMagicHash))
}
