package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
)

func TestEntryType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		typeID          int32
		derivationIndex uint32
	}{
		{"root", -1, 0},
		{"whatsNew", 2, 2},
		{"ethereum", 5, 5},
		{"walletCredentials", 12, 12},
		{"accountCredentials", 14, 14},
	}

	for _, tt := range tests {
		entryType, err := domain.ParseEntryType(tt.name)
		require.NoError(t, err)
		require.Equal(t, tt.typeID, entryType.TypeID())
		require.Equal(t, tt.derivationIndex, entryType.DerivationIndex())
		require.Equal(t, tt.name, entryType.String())

		fromID, err := domain.NewEntryType(tt.typeID)
		require.NoError(t, err)
		require.Equal(t, entryType, fromID)
	}

	for _, typeID := range []int32{0, 1, 15, -2} {
		_, err := domain.NewEntryType(typeID)
		require.ErrorIs(t, err, domain.ErrUnknownEntryType)
	}
	_, err := domain.ParseEntryType("bitcoin")
	require.ErrorIs(t, err, domain.ErrUnknownEntryType)

	require.Len(t, domain.EntryTypes(), 13)
}
