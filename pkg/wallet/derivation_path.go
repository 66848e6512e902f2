package wallet

import (
	"math"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

const (
	// MaxHardenedValue is the max value for hardened indexes of BIP32
	// derivation paths
	MaxHardenedValue = math.MaxUint32 - hdkeychain.HardenedKeyStart
)

// DerivationPath is a sequence of BIP32 child indexes relative to a node.
// Hardened steps are offset by hdkeychain.HardenedKeyStart.
type DerivationPath []uint32

// Hardened returns the hardened child index for i.
func Hardened(i uint32) uint32 {
	return hdkeychain.HardenedKeyStart + i
}
