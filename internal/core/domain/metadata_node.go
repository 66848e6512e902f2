package domain

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

const (
	// MetadataPurposeIndex is the first 31 bits of
	// sha256("info.blockchain.metadata"), hardened under the master key.
	MetadataPurposeIndex uint32 = 510742
	// SharedMetadataPurposeIndex is the first 31 bits of
	// sha256("info.blockchain.mdid"), hardened under the master key.
	SharedMetadataPurposeIndex uint32 = 1181036145
)

// MetadataNode holds the keys scoped to one entry type.
type MetadataNode struct {
	Address       string
	SigningKey    *wallet.PrivateKey
	EncryptionKey []byte
	// UnpaddedEncryptionKey is set only if the scalar the encryption key is
	// made of has leading zero bytes.
	UnpaddedEncryptionKey []byte
	Type                  EntryType
}

// NewMetadataNode derives the node of the given entry type under hdNode:
// signing key at index'/0', encryption key is the sha256 of the private
// scalar at index'/1'.
func NewMetadataNode(hdNode *wallet.PrivateKey, t EntryType) (*MetadataNode, error) {
	if hdNode == nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, wallet.ErrNullPrivateKey)
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, ErrUnknownEntryType)
	}

	payloadTypeNode, err := hdNode.DeriveHardened(t.DerivationIndex())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}
	signingKey, err := payloadTypeNode.DeriveHardened(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}
	encryptionNode, err := payloadTypeNode.DeriveHardened(1)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}

	raw, err := encryptionNode.Raw()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}
	encryptionKey := sha256.Sum256(raw)

	var unpaddedKey []byte
	if trimmed := wallet.TrimLeadingZeros(raw); len(trimmed) != len(raw) {
		k := sha256.Sum256(trimmed)
		unpaddedKey = k[:]
	}

	address, err := signingKey.Address()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}

	return &MetadataNode{
		Address:               address,
		SigningKey:            signingKey,
		EncryptionKey:         encryptionKey[:],
		UnpaddedEncryptionKey: unpaddedKey,
		Type:                  t,
	}, nil
}

// EncryptionKeys returns the keys to try, in order, when decrypting.
func (n *MetadataNode) EncryptionKeys() [][]byte {
	keys := [][]byte{n.EncryptionKey}
	if len(n.UnpaddedEncryptionKey) > 0 &&
		!bytes.Equal(n.UnpaddedEncryptionKey, n.EncryptionKey) {
		keys = append(keys, n.UnpaddedEncryptionKey)
	}
	return keys
}

// SecondPasswordNode is the root node derived from the wallet credentials
// only, independent of the master key.
type SecondPasswordNode struct {
	*MetadataNode
}

// NewSecondPasswordNode derives the second password node from
// sha256(guid||sharedKey||password) used as BIP32 seed.
func NewSecondPasswordNode(c Credentials) (*SecondPasswordNode, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	seed := sha256.Sum256([]byte(c.GUID + c.SharedKey + c.Password))
	master, err := wallet.NewMasterKeyFromSeed(seed[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}
	node, err := NewMetadataNode(master.PrivateKey, EntryTypeRoot)
	if err != nil {
		return nil, err
	}
	return &SecondPasswordNode{node}, nil
}

// RemoteMetadataNodes are the two top level metadata keys.
type RemoteMetadataNodes struct {
	MetadataNode       *wallet.PrivateKey
	SharedMetadataNode *wallet.PrivateKey
}

// NewRemoteMetadataNodes derives both nodes from the master key at their
// fixed hardened purpose indexes.
func NewRemoteMetadataNodes(masterKey *wallet.MasterKey) (*RemoteMetadataNodes, error) {
	if masterKey == nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, wallet.ErrNullMasterKey)
	}

	metadataNode, err := masterKey.DeriveHardened(MetadataPurposeIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}
	sharedMetadataNode, err := masterKey.DeriveHardened(SharedMetadataPurposeIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivationFailed, err)
	}
	return &RemoteMetadataNodes{
		MetadataNode:       metadataNode,
		SharedMetadataNode: sharedMetadataNode,
	}, nil
}

// NewRemoteMetadataNodesFromXprvs parses the nodes as stored in the root
// entry.
func NewRemoteMetadataNodesFromXprvs(metadata, mdid string) (*RemoteMetadataNodes, error) {
	metadataNode, err := wallet.NewPrivateKeyFromString(metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata node: %s", ErrMalformedPayload, err)
	}
	sharedMetadataNode, err := wallet.NewPrivateKeyFromString(mdid)
	if err != nil {
		return nil, fmt.Errorf("%w: mdid node: %s", ErrMalformedPayload, err)
	}
	return &RemoteMetadataNodes{
		MetadataNode:       metadataNode,
		SharedMetadataNode: sharedMetadataNode,
	}, nil
}

// Node returns the node of the given entry type, derived under the metadata
// node. Root is not derivable from here.
func (n *RemoteMetadataNodes) Node(t EntryType) (*MetadataNode, error) {
	if t == EntryTypeRoot {
		return nil, fmt.Errorf(
			"%w: root entry lives under the second password node", ErrDerivationFailed,
		)
	}
	return NewMetadataNode(n.MetadataNode, t)
}

// Payload returns the content of the root entry for these nodes.
func (n *RemoteMetadataNodes) Payload() RemoteMetadataNodesPayload {
	return RemoteMetadataNodesPayload{
		Metadata: n.MetadataNode.Xprv(),
		Mdid:     n.SharedMetadataNode.Xprv(),
	}
}

func (n *RemoteMetadataNodes) Equal(other *RemoteMetadataNodes) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.MetadataNode.Equal(other.MetadataNode) &&
		n.SharedMetadataNode.Equal(other.SharedMetadataNode)
}
