package rng

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/internal/core/ports"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

// Service combines server and local entropy into the seed material of new
// wallets.
type Service struct {
	server ports.ServerEntropyRepository
	local  ports.LocalEntropyProvider
}

// NewService returns a new rng service. The local provider defaults to the
// OS secure random source.
func NewService(
	server ports.ServerEntropyRepository, local ports.LocalEntropyProvider,
) (*Service, error) {
	if server == nil {
		return nil, fmt.Errorf("missing server entropy repository")
	}
	if local == nil {
		local = NewLocalEntropyProvider()
	}
	return &Service{server, local}, nil
}

// GenerateEntropy returns server XOR local entropy of count bytes. Both
// sources are validated before being combined.
func (s *Service) GenerateEntropy(
	ctx context.Context, count int, format ports.EntropyFormat,
) ([]byte, error) {
	if count <= 0 {
		return nil, fmt.Errorf("entropy bytes count must be greater than zero")
	}
	if format != ports.EntropyFormatHex {
		return nil, fmt.Errorf("unsupported entropy format %s", format)
	}

	serverHex, err := s.server.GetEntropy(ctx, count, format)
	if err != nil {
		return nil, fmt.Errorf("failed to get server entropy: %w", err)
	}
	serverEntropy, err := hex.DecodeString(serverHex)
	if err != nil {
		return nil, fmt.Errorf("%w: not hex", domain.ErrServerEntropyInvalid)
	}
	if len(serverEntropy) != count {
		return nil, fmt.Errorf(
			"%w: got %d bytes, expected %d",
			domain.ErrServerEntropyInvalid, len(serverEntropy), count,
		)
	}
	if isZero(serverEntropy) {
		return nil, fmt.Errorf("%w: all zero bytes", domain.ErrServerEntropyInvalid)
	}

	localEntropy, err := s.local.GetEntropy(count)
	if err != nil {
		return nil, fmt.Errorf("failed to read local entropy: %w", err)
	}
	if len(localEntropy) != count {
		return nil, fmt.Errorf(
			"%w: got %d bytes, expected %d",
			domain.ErrLocalEntropyInvalid, len(localEntropy), count,
		)
	}
	if isZero(localEntropy) {
		return nil, fmt.Errorf("%w: all zero bytes", domain.ErrLocalEntropyInvalid)
	}

	entropy := make([]byte, count)
	for i := range entropy {
		entropy[i] = serverEntropy[i] ^ localEntropy[i]
	}
	return entropy, nil
}

// NewMnemonic returns a new wallet whose BIP39 mnemonic of the given
// strength in bits encodes combined entropy.
func (s *Service) NewMnemonic(ctx context.Context, strength int) (*wallet.Wallet, error) {
	if strength == 0 {
		strength = 128
	}
	if strength < 128 || strength > 256 || strength%32 != 0 {
		return nil, wallet.ErrInvalidEntropySize
	}

	entropy, err := s.GenerateEntropy(ctx, strength/8, ports.EntropyFormatHex)
	if err != nil {
		return nil, err
	}
	w, err := wallet.NewWalletFromEntropy(entropy)
	if err != nil {
		return nil, err
	}
	log.Debugf("generated new %d words mnemonic", len(w.Mnemonic()))
	return w, nil
}

func isZero(buf []byte) bool {
	return len(bytes.Trim(buf, "\x00")) == 0
}

type localEntropyProvider struct {
	reader io.Reader
}

// NewLocalEntropyProvider returns a provider reading from crypto/rand.
func NewLocalEntropyProvider() ports.LocalEntropyProvider {
	return localEntropyProvider{rand.Reader}
}

func (p localEntropyProvider) GetEntropy(count int) ([]byte, error) {
	buf := make([]byte, count)
	if _, err := io.ReadFull(p.reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
