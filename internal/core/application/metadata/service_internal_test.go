package metadata

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

func TestDecryptWithUnpaddedKey(t *testing.T) {
	paddedKey := sha256.Sum256([]byte{0, 0, 1})
	unpaddedKey := sha256.Sum256([]byte{1})
	plaintext := `{"legacy":true}`

	cypher, err := wallet.EncryptWithKey(wallet.EncryptWithKeyOpts{
		PlainText: plaintext,
		Key:       unpaddedKey[:],
	})
	require.NoError(t, err)

	node := &domain.MetadataNode{
		EncryptionKey:         paddedKey[:],
		UnpaddedEncryptionKey: unpaddedKey[:],
	}
	revealed, err := decrypt(node, cypher)
	require.NoError(t, err)
	require.Equal(t, plaintext, revealed)

	// without the fallback key the entry is unreadable
	node.UnpaddedEncryptionKey = nil
	_, err = decrypt(node, cypher)
	require.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestDecryptRejectsNonJSON(t *testing.T) {
	key := sha256.Sum256([]byte("key"))
	cypher, err := wallet.EncryptWithKey(wallet.EncryptWithKeyOpts{
		PlainText: "not json",
		Key:       key[:],
	})
	require.NoError(t, err)

	_, err = decrypt(&domain.MetadataNode{EncryptionKey: key[:]}, cypher)
	require.ErrorIs(t, err, domain.ErrDecryptionFailed)
}
