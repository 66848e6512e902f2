package rng_test

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/core/application/rng"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/internal/core/ports"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

var ctx = context.Background()

type mockServerEntropy struct {
	mock.Mock
}

func (m *mockServerEntropy) GetEntropy(
	_ context.Context, count int, format ports.EntropyFormat,
) (string, error) {
	args := m.Called(count, format)
	return args.String(0), args.Error(1)
}

type mockLocalEntropy struct {
	mock.Mock
}

func (m *mockLocalEntropy) GetEntropy(count int) ([]byte, error) {
	args := m.Called(count)

	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func TestGenerateEntropy(t *testing.T) {
	server := &mockServerEntropy{}
	server.On("GetEntropy", 16, ports.EntropyFormatHex).
		Return("00000000000000000000000000000011", nil)
	local := &mockLocalEntropy{}
	local.On("GetEntropy", 16).Return(mustDecodeHex("00000000000000000000000000000001"), nil)

	svc, err := rng.NewService(server, local)
	require.NoError(t, err)

	entropy, err := svc.GenerateEntropy(ctx, 16, ports.EntropyFormatHex)
	require.NoError(t, err)
	require.Equal(t, "00000000000000000000000000000010", hex.EncodeToString(entropy))
}

func TestFailingGenerateEntropy(t *testing.T) {
	validHex := "0102030405060708090a0b0c0d0e0f10"
	zeroHex := strings.Repeat("00", 16)
	underlying := errors.New("connection refused")

	tests := []struct {
		name          string
		serverHex     string
		serverErr     error
		local         []byte
		localErr      error
		expectedError error
	}{
		{"zero server", zeroHex, nil, mustDecodeHex(validHex), nil, domain.ErrServerEntropyInvalid},
		{"zero local", validHex, nil, make([]byte, 16), nil, domain.ErrLocalEntropyInvalid},
		{"both zero", zeroHex, nil, make([]byte, 16), nil, domain.ErrServerEntropyInvalid},
		{"server not hex", "zz", nil, mustDecodeHex(validHex), nil, domain.ErrServerEntropyInvalid},
		{"server short", "0102", nil, mustDecodeHex(validHex), nil, domain.ErrServerEntropyInvalid},
		{"local short", validHex, nil, []byte{1, 2}, nil, domain.ErrLocalEntropyInvalid},
		{"server failure", "", underlying, mustDecodeHex(validHex), nil, underlying},
		{"local failure", validHex, nil, nil, underlying, underlying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &mockServerEntropy{}
			server.On("GetEntropy", 16, ports.EntropyFormatHex).Return(tt.serverHex, tt.serverErr)
			local := &mockLocalEntropy{}
			local.On("GetEntropy", 16).Return(tt.local, tt.localErr)

			svc, err := rng.NewService(server, local)
			require.NoError(t, err)

			entropy, err := svc.GenerateEntropy(ctx, 16, ports.EntropyFormatHex)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, entropy)
		})
	}
}

func TestGenerateEntropyWithDefaultLocalProvider(t *testing.T) {
	server := &mockServerEntropy{}
	server.On("GetEntropy", 32, ports.EntropyFormatHex).Return(strings.Repeat("ff", 32), nil)

	svc, err := rng.NewService(server, nil)
	require.NoError(t, err)

	entropy, err := svc.GenerateEntropy(ctx, 32, ports.EntropyFormatHex)
	require.NoError(t, err)
	require.Len(t, entropy, 32)

	_, err = svc.GenerateEntropy(ctx, 0, ports.EntropyFormatHex)
	require.Error(t, err)
	_, err = svc.GenerateEntropy(ctx, 32, ports.EntropyFormat("base64"))
	require.Error(t, err)
}

func TestNewMnemonic(t *testing.T) {
	server := &mockServerEntropy{}
	server.On("GetEntropy", 16, ports.EntropyFormatHex).Return(strings.Repeat("ff", 16), nil)
	server.On("GetEntropy", 32, ports.EntropyFormatHex).Return(strings.Repeat("ff", 32), nil)
	local := &mockLocalEntropy{}
	local.On("GetEntropy", 16).Return(mustDecodeHex(strings.Repeat("ff", 16)), nil)
	local.On("GetEntropy", 32).Return(mustDecodeHex(strings.Repeat("0f", 32)), nil)

	svc, err := rng.NewService(server, local)
	require.NoError(t, err)

	// ff XOR ff gives all zero entropy, that is a valid mnemonic anyway
	w, err := svc.NewMnemonic(ctx, 0)
	require.NoError(t, err)
	require.Equal(
		t,
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		w.MnemonicString(),
	)
	require.Equal(
		t,
		"xprv9s21ZrQH143K3GJpoapnV8SFfukcVBSfeCficPSGfubmSFDxo1kuHnLisriDvSnRRuL2Qrg5ggqHKNVpxR86QEC8w35uxmGoggxtQTPvfUu",
		w.MasterKey().Xprv(),
	)

	w, err = svc.NewMnemonic(ctx, 256)
	require.NoError(t, err)
	require.Len(t, w.Mnemonic(), 24)
	require.True(t, wallet.IsMnemonicValid(w.Mnemonic()))

	_, err = svc.NewMnemonic(ctx, 100)
	require.Equal(t, wallet.ErrInvalidEntropySize, err)
}

func mustDecodeHex(str string) []byte {
	buf, _ := hex.DecodeString(str)
	return buf
}
