package inmemory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/core/application/metadata"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/internal/infrastructure/metadata-client/inmemory"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestMemoryTransport(t *testing.T) {
	ctx := context.Background()

	svc, err := metadata.NewService(inmemory.NewMemoryTransport())
	require.NoError(t, err)

	masterKey, err := wallet.NewMasterKeyFromMnemonic(
		wallet.NewWalletFromMnemonicOpts{Mnemonic: strings.Fields(testMnemonic)},
	)
	require.NoError(t, err)

	credentials, err := domain.NewCredentials("password")
	require.NoError(t, err)
	secondPasswordNode, err := domain.NewSecondPasswordNode(*credentials)
	require.NoError(t, err)

	state, err := svc.Initialize(ctx, masterKey, secondPasswordNode)
	require.NoError(t, err)
	require.True(t, state.IsNew())

	err = svc.SaveCredentials(ctx, *credentials, state)
	require.NoError(t, err)

	// second save of the same entry is chained to the first one.
	err = svc.SaveCredentials(ctx, *credentials, state)
	require.NoError(t, err)

	recoveredState, recoveredCredentials, err :=
		svc.InitializeAndRecoverCredentials(ctx, testMnemonic)
	require.NoError(t, err)
	require.Equal(t, *credentials, *recoveredCredentials)
	require.True(t, state.MetadataNodes.Equal(recoveredState.MetadataNodes))

	state, err = svc.Initialize(ctx, nil, secondPasswordNode)
	require.NoError(t, err)
	require.False(t, state.IsNew())
	require.True(t, state.MetadataNodes.Equal(recoveredState.MetadataNodes))
}
