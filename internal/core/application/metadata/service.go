package metadata

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/internal/core/ports"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

// Service syncs the wallet metadata entries with the remote store.
type Service struct {
	transport ports.MetadataTransport
}

func NewService(transport ports.MetadataTransport) (*Service, error) {
	if transport == nil {
		return nil, fmt.Errorf("missing metadata transport")
	}
	return &Service{transport}, nil
}

// Fetch returns the plaintext JSON of the entry of the given type.
func (s *Service) Fetch(
	ctx context.Context, entryType domain.EntryType,
	nodes *domain.RemoteMetadataNodes,
) (string, error) {
	node, err := s.node(entryType, nodes)
	if err != nil {
		return "", err
	}
	return s.fetch(ctx, node)
}

// FetchEntries fetches the given entries concurrently. Entries not yet
// created are not included in the result.
func (s *Service) FetchEntries(
	ctx context.Context, nodes *domain.RemoteMetadataNodes,
	entryTypes ...domain.EntryType,
) (map[domain.EntryType]string, error) {
	if len(entryTypes) <= 0 {
		entryTypes = domain.EntryTypes()
	}

	entries := make(map[domain.EntryType]string)
	lock := &sync.Mutex{}

	eg, ctx := errgroup.WithContext(ctx)
	for _, entryType := range entryTypes {
		entryType := entryType
		eg.Go(func() error {
			plaintext, err := s.Fetch(ctx, entryType, nodes)
			if err != nil {
				if errors.Is(err, domain.ErrNotYetCreated) {
					return nil
				}
				return fmt.Errorf("%s: %w", entryType, err)
			}
			lock.Lock()
			entries[entryType] = plaintext
			lock.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Save encrypts, signs and writes the given JSON as the new entry of the
// given type. Concurrent saves of the same entry must be serialized by the
// caller.
func (s *Service) Save(
	ctx context.Context, payloadJSON string, entryType domain.EntryType,
	nodes *domain.RemoteMetadataNodes,
) error {
	node, err := s.node(entryType, nodes)
	if err != nil {
		return err
	}
	return s.save(ctx, payloadJSON, node)
}

// GenerateNodes fetches the root entry stored at the second password node.
// If not yet created, the nodes are derived from the master key and the
// returned state is marked as new: the caller is expected to save it with
// SaveRemoteMetadataNodes.
func (s *Service) GenerateNodes(
	ctx context.Context, masterKey *wallet.MasterKey,
	secondPasswordNode *domain.SecondPasswordNode,
) (*domain.MetadataState, error) {
	if secondPasswordNode == nil {
		return nil, fmt.Errorf(
			"%w: missing second password node", domain.ErrDerivationFailed,
		)
	}

	plaintext, err := s.fetch(ctx, secondPasswordNode.MetadataNode)
	if err != nil {
		if !errors.Is(err, domain.ErrNotYetCreated) {
			return nil, err
		}

		log.Debug("root metadata entry not yet created, deriving nodes")
		nodes, err := domain.NewRemoteMetadataNodes(masterKey)
		if err != nil {
			return nil, err
		}
		return domain.NewMetadataState(nodes, secondPasswordNode, true), nil
	}

	payload, err := domain.ParseRemoteMetadataNodesPayload(plaintext)
	if err != nil {
		return nil, err
	}
	nodes, err := payload.Nodes()
	if err != nil {
		return nil, err
	}

	if masterKey != nil {
		if derived, err := domain.NewRemoteMetadataNodes(masterKey); err == nil &&
			!derived.Equal(nodes) {
			log.Warn("metadata nodes stored remotely differ from derived ones")
		}
	}

	return domain.NewMetadataState(nodes, secondPasswordNode, false), nil
}

// SaveRemoteMetadataNodes writes the root entry of the given state.
func (s *Service) SaveRemoteMetadataNodes(
	ctx context.Context, state *domain.MetadataState,
) error {
	if state == nil || state.MetadataNodes == nil ||
		state.SecondPasswordNode == nil {
		return fmt.Errorf("%w: missing metadata state", domain.ErrDerivationFailed)
	}
	payload := state.MetadataNodes.Payload()
	return s.save(ctx, payload.Serialize(), state.SecondPasswordNode.MetadataNode)
}

// Initialize generates the nodes and saves the root entry if it did not
// exist yet.
func (s *Service) Initialize(
	ctx context.Context, masterKey *wallet.MasterKey,
	secondPasswordNode *domain.SecondPasswordNode,
) (*domain.MetadataState, error) {
	state, err := s.GenerateNodes(ctx, masterKey, secondPasswordNode)
	if err != nil {
		return nil, err
	}
	if state.IsNew() {
		if err := s.SaveRemoteMetadataNodes(ctx, state); err != nil {
			return nil, err
		}
		log.Debug("root metadata entry created")
	}
	return state, nil
}

// SaveCredentials writes the wallet credentials entry, the one read by
// InitializeAndRecoverCredentials.
func (s *Service) SaveCredentials(
	ctx context.Context, credentials domain.Credentials,
	state *domain.MetadataState,
) error {
	if err := credentials.Validate(); err != nil {
		return err
	}
	if state == nil || state.MetadataNodes == nil {
		return fmt.Errorf("%w: missing metadata state", domain.ErrDerivationFailed)
	}
	return s.Save(
		ctx, credentials.Serialize(), domain.EntryTypeWalletCredentials,
		state.MetadataNodes,
	)
}

// InitializeAndRecoverCredentials recovers the credentials of a wallet from
// its mnemonic only. An invalid mnemonic fails before any network call.
func (s *Service) InitializeAndRecoverCredentials(
	ctx context.Context, mnemonic string,
) (*domain.MetadataState, *domain.Credentials, error) {
	words := strings.Fields(mnemonic)
	if !wallet.IsMnemonicValid(words) {
		return nil, nil, domain.ErrInvalidMnemonic
	}

	masterKey, err := wallet.NewMasterKeyFromMnemonic(
		wallet.NewWalletFromMnemonicOpts{Mnemonic: words},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrDerivationFailed, err)
	}
	nodes, err := domain.NewRemoteMetadataNodes(masterKey)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := s.Fetch(ctx, domain.EntryTypeWalletCredentials, nodes)
	if err != nil {
		return nil, nil, err
	}
	credentials, err := domain.ParseCredentials(plaintext)
	if err != nil {
		return nil, nil, err
	}

	secondPasswordNode, err := domain.NewSecondPasswordNode(*credentials)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrDerivationFailed, err)
	}

	log.Debug("wallet credentials recovered")
	return domain.NewMetadataState(nodes, secondPasswordNode, false), credentials, nil
}

func (s *Service) node(
	entryType domain.EntryType, nodes *domain.RemoteMetadataNodes,
) (*domain.MetadataNode, error) {
	if nodes == nil {
		return nil, fmt.Errorf(
			"%w: missing remote metadata nodes", domain.ErrDerivationFailed,
		)
	}
	return nodes.Node(entryType)
}

func (s *Service) fetch(
	ctx context.Context, node *domain.MetadataNode,
) (string, error) {
	payload, err := s.transport.Fetch(ctx, node.Address)
	if err != nil {
		return "", transportError(err)
	}

	log.Debugf("fetched %s metadata entry at %s", node.Type, node.Address)

	cypher, err := payload.DecodedPayload()
	if err != nil {
		return "", err
	}
	if payload.Signature != "" {
		prevMagicHash, err := payload.DecodedPrevMagicHash()
		if err != nil {
			return "", err
		}
		if err := wallet.VerifyMessage(wallet.VerifyMessageOpts{
			Address:   node.Address,
			Signature: payload.Signature,
			Message:   SignedText(cypher, prevMagicHash),
		}); err != nil {
			return "", fmt.Errorf("%w: %s", domain.ErrMalformedPayload, err)
		}
	}

	return decrypt(node, payload.Payload)
}

func (s *Service) save(
	ctx context.Context, payloadJSON string, node *domain.MetadataNode,
) error {
	if !json.Valid([]byte(payloadJSON)) {
		return fmt.Errorf("%w: payload is not valid JSON", domain.ErrMalformedPayload)
	}

	var prevMagicHash []byte
	current, err := s.transport.Fetch(ctx, node.Address)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return transportError(err)
		}
	} else {
		currentPayload, err := current.DecodedPayload()
		if err != nil {
			return err
		}
		currentPrevMagicHash, err := current.DecodedPrevMagicHash()
		if err != nil {
			return err
		}
		prevMagicHash = Magic(currentPayload, currentPrevMagicHash)
	}

	cypher, err := wallet.EncryptWithKey(wallet.EncryptWithKeyOpts{
		PlainText: payloadJSON,
		Key:       node.EncryptionKey,
	})
	if err != nil {
		return err
	}
	cypherBytes, _ := base64.StdEncoding.DecodeString(cypher)

	signature, err := wallet.SignMessage(wallet.SignMessageOpts{
		Key:     node.SigningKey,
		Message: SignedText(cypherBytes, prevMagicHash),
	})
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrDerivationFailed, err)
	}

	body := &domain.MetadataPayload{
		Version:   domain.MetadataPayloadVersion,
		Payload:   cypher,
		Signature: signature,
		TypeID:    node.Type.TypeID(),
	}
	if prevMagicHash != nil {
		body.PrevMagicHash = hex.EncodeToString(prevMagicHash)
	}

	if err := s.transport.Put(ctx, node.Address, body); err != nil {
		return transportError(err)
	}

	log.Debugf("saved %s metadata entry at %s", node.Type, node.Address)
	return nil
}

// decrypt tries every key of the node. A key is accepted only if the
// resulting plaintext is valid JSON.
func decrypt(node *domain.MetadataNode, cypher string) (string, error) {
	for _, key := range node.EncryptionKeys() {
		plaintext, err := wallet.DecryptWithKey(wallet.DecryptWithKeyOpts{
			CypherText: cypher,
			Key:        key,
		})
		if err != nil {
			continue
		}
		if json.Valid([]byte(plaintext)) {
			return plaintext, nil
		}
	}
	return "", domain.ErrDecryptionFailed
}

func transportError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotYetCreated
	}
	if errors.Is(err, domain.ErrTransport) {
		return err
	}
	return domain.NewTransportError(err)
}
