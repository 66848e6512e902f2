package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	underlying := errors.New("connection refused")

	tests := []struct {
		err  error
		kind domain.ErrorKind
	}{
		{nil, domain.KindUnknown},
		{underlying, domain.KindUnknown},
		{fmt.Errorf("%w: bad path", domain.ErrDerivationFailed), domain.KindDerivationFailed},
		{domain.ErrInvalidMnemonic, domain.KindDerivationFailed},
		{fmt.Errorf("fetch: %w", domain.ErrNotYetCreated), domain.KindNotYetCreated},
		{domain.ErrDecryptionFailed, domain.KindDecryptionFailed},
		{domain.ErrMalformedPayload, domain.KindMalformedPayload},
		{domain.NewTransportError(underlying), domain.KindTransport},
		{domain.ErrServerEntropyInvalid, domain.KindServerEntropyInvalid},
		{domain.ErrLocalEntropyInvalid, domain.KindLocalEntropyInvalid},
	}
	for _, tt := range tests {
		require.Equal(t, tt.kind, domain.KindOf(tt.err))
	}

	err := fmt.Errorf("save: %w", domain.NewTransportError(underlying))
	require.ErrorIs(t, err, domain.ErrTransport)
	require.ErrorIs(t, err, underlying)
	require.Equal(t, "transport", domain.KindOf(err).String())
}
