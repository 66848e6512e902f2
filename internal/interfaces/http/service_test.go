package httpinterface_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/core/application/metadata"
	"github.com/tdex-network/wallet-metadata/internal/core/application/store"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	metadataclient "github.com/tdex-network/wallet-metadata/internal/infrastructure/metadata-client"
	"github.com/tdex-network/wallet-metadata/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/wallet-metadata/internal/interfaces/http"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testAddress  = "19qvgV6P1nqgCDhiPweUrCEifjXsqVZyf5"
)

func TestEndToEnd(t *testing.T) {
	server := httptest.NewServer(httpinterface.NewRouter(newTestStore(t), true))
	defer server.Close()
	ctx := context.Background()

	transport, err := metadataclient.NewClient(metadataclient.ClientOpts{
		URL: server.URL,
	})
	require.NoError(t, err)
	svc, err := metadata.NewService(transport)
	require.NoError(t, err)

	masterKey, err := wallet.NewMasterKeyFromMnemonic(
		wallet.NewWalletFromMnemonicOpts{Mnemonic: strings.Fields(testMnemonic)},
	)
	require.NoError(t, err)
	credentials, err := domain.NewCredentials("password")
	require.NoError(t, err)
	secondPasswordNode, err := domain.NewSecondPasswordNode(*credentials)
	require.NoError(t, err)

	_, _, err = svc.InitializeAndRecoverCredentials(ctx, testMnemonic)
	require.ErrorIs(t, err, domain.ErrNotYetCreated)

	state, err := svc.Initialize(ctx, masterKey, secondPasswordNode)
	require.NoError(t, err)
	require.True(t, state.IsNew())

	err = svc.SaveCredentials(ctx, *credentials, state)
	require.NoError(t, err)

	err = svc.Save(
		ctx, `{"contacts":["alice"]}`, domain.EntryTypeContacts,
		state.MetadataNodes,
	)
	require.NoError(t, err)
	err = svc.Save(
		ctx, `{"contacts":["alice","bob"]}`, domain.EntryTypeContacts,
		state.MetadataNodes,
	)
	require.NoError(t, err)

	entries, err := svc.FetchEntries(ctx, state.MetadataNodes)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, `{"contacts":["alice","bob"]}`, entries[domain.EntryTypeContacts])

	_, recovered, err := svc.InitializeAndRecoverCredentials(ctx, testMnemonic)
	require.NoError(t, err)
	require.Equal(t, *credentials, *recovered)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "metadata_entries 3")
	require.Contains(t, string(body), "metadata_http_requests_total")
}

func TestStatusCodes(t *testing.T) {
	server := httptest.NewServer(httpinterface.NewRouter(newTestStore(t), false))
	defer server.Close()

	tests := []struct {
		name     string
		method   string
		address  string
		body     string
		expected int
	}{
		{
			name:     "not_found",
			method:   http.MethodGet,
			address:  testAddress,
			expected: http.StatusNotFound,
		},
		{
			name:     "invalid_address",
			method:   http.MethodGet,
			address:  "invalid",
			expected: http.StatusBadRequest,
		},
		{
			name:     "invalid_body",
			method:   http.MethodPut,
			address:  testAddress,
			body:     "not json",
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrong_version",
			method:   http.MethodPut,
			address:  testAddress,
			body:     `{"version":2,"payload":"AAAA","signature":"AAAA","type_id":12}`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "invalid_signature",
			method:   http.MethodPut,
			address:  testAddress,
			body:     `{"version":1,"payload":"AAAA","signature":"AAAA","type_id":12}`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "metrics_disabled",
			method:   http.MethodGet,
			expected: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			url := fmt.Sprintf("%s/metadata/%s", server.URL, tt.address)
			if tt.address == "" {
				url = server.URL + "/metrics"
			}
			req, err := http.NewRequest(tt.method, url, strings.NewReader(tt.body))
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.expected, resp.StatusCode)

			if tt.address != "" {
				errResp := httpinterface.ErrorResponse{}
				err = json.NewDecoder(resp.Body).Decode(&errResp)
				require.NoError(t, err)
				require.NotEmpty(t, errResp.Error)
			}
		})
	}
}

func TestStaleWrite(t *testing.T) {
	storeSvc := newTestStore(t)
	server := httptest.NewServer(httpinterface.NewRouter(storeSvc, false))
	defer server.Close()
	ctx := context.Background()

	transport, err := metadataclient.NewClient(metadataclient.ClientOpts{
		URL: server.URL,
	})
	require.NoError(t, err)

	key, err := wallet.NewPrivateKeyFromString(
		"xprv9wTYmMFdV23N2TdNG573QoEsfRrWKQgWeibmLntzniatZvR9BmLnvSxqu53Kw1UmYPxLgboyZQaXwTCg8MSY3H2EU4pWcQDnRnrVA1xe8fs",
	)
	require.NoError(t, err)
	address, err := key.Address()
	require.NoError(t, err)

	cypher := []byte("cypher")
	signature, err := wallet.SignMessage(wallet.SignMessageOpts{
		Key:     key,
		Message: metadata.SignedText(cypher, nil),
	})
	require.NoError(t, err)
	payload := &domain.MetadataPayload{
		Version:   domain.MetadataPayloadVersion,
		Payload:   "Y3lwaGVy",
		Signature: signature,
		TypeID:    int32(domain.EntryTypeWalletCredentials),
	}

	err = transport.Put(ctx, address, payload)
	require.NoError(t, err)

	// same write again is not chained to the stored entry.
	err = transport.Put(ctx, address, payload)
	require.ErrorIs(t, err, domain.ErrStaleWrite)
}

func TestService(t *testing.T) {
	_, err := httpinterface.NewService(httpinterface.ServiceOpts{})
	require.Error(t, err)

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:  "127.0.0.1:0",
		StoreSvc: newTestStore(t),
	})
	require.NoError(t, err)

	err = svc.Start()
	require.NoError(t, err)
	defer svc.Stop()

	resp, err := http.Get(
		fmt.Sprintf("http://%s/metadata/%s", svc.Address(), testAddress),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func newTestStore(t *testing.T) *store.Service {
	svc, err := store.NewService(inmemory.NewMetadataRepositoryImpl())
	require.NoError(t, err)
	return svc
}
