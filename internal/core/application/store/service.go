package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/application/metadata"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

var (
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address must be a valid mainnet p2pkh address")
	// ErrInvalidVersion ...
	ErrInvalidVersion = fmt.Errorf(
		"payload version must be %d", domain.MetadataPayloadVersion,
	)
	// ErrNullPayload ...
	ErrNullPayload = errors.New("payload must not be null")
	// ErrNullSignature ...
	ErrNullSignature = errors.New("signature is required for writing")
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("signature does not verify for address")
)

// Service is the server side of the metadata transport: it stores the
// entries and rejects writes that are not authenticated or not chained to
// the current head.
type Service struct {
	repo domain.MetadataRepository
}

func NewService(repo domain.MetadataRepository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing metadata repository")
	}
	return &Service{repo}, nil
}

// Get returns the entry stored at the given address or domain.ErrNotFound.
func (s *Service) Get(
	ctx context.Context, address string,
) (*domain.MetadataPayload, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	return s.repo.GetEntry(ctx, address)
}

// Put stores the entry at the given address. The entry must be signed by the
// owner of the address and its prev_magic_hash must be the magic hash of the
// currently stored entry, empty if none.
func (s *Service) Put(
	ctx context.Context, address string, payload *domain.MetadataPayload,
) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	if payload == nil || payload.Payload == "" {
		return ErrNullPayload
	}
	if payload.Version != domain.MetadataPayloadVersion {
		return ErrInvalidVersion
	}
	if _, err := domain.NewEntryType(payload.TypeID); err != nil {
		return err
	}
	if payload.Signature == "" {
		return ErrNullSignature
	}

	cypher, err := payload.DecodedPayload()
	if err != nil {
		return err
	}
	prevMagicHash, err := payload.DecodedPrevMagicHash()
	if err != nil {
		return err
	}
	if err := wallet.VerifyMessage(wallet.VerifyMessageOpts{
		Address:   address,
		Signature: payload.Signature,
		Message:   metadata.SignedText(cypher, prevMagicHash),
	}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	return s.repo.UpdateEntry(
		ctx, address,
		func(current *domain.MetadataPayload) (*domain.MetadataPayload, error) {
			now := time.Now().Unix()
			createdAt := now

			if current == nil {
				if prevMagicHash != nil {
					return nil, domain.ErrStaleWrite
				}
			} else {
				head, err := magicOf(current)
				if err != nil {
					return nil, err
				}
				if payload.PrevMagicHash != hex.EncodeToString(head) {
					return nil, domain.ErrStaleWrite
				}
				createdAt = current.CreatedAt
			}

			entry := *payload
			entry.Address = address
			entry.CreatedAt = createdAt
			entry.UpdatedAt = now

			log.Debugf("storing entry of type %d at %s", entry.TypeID, address)
			return &entry, nil
		},
	)
}

// Delete removes the entry at the given address.
func (s *Service) Delete(ctx context.Context, address string) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	return s.repo.DeleteEntry(ctx, address)
}

// Count returns the number of stored entries.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountEntries(ctx)
}

func magicOf(entry *domain.MetadataPayload) ([]byte, error) {
	cypher, err := entry.DecodedPayload()
	if err != nil {
		return nil, err
	}
	prevMagicHash, err := entry.DecodedPrevMagicHash()
	if err != nil {
		return nil, err
	}
	return metadata.Magic(cypher, prevMagicHash), nil
}

func validateAddress(address string) error {
	addr, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
	if err != nil {
		return ErrInvalidAddress
	}
	if _, ok := addr.(*btcutil.AddressPubKeyHash); !ok {
		return ErrInvalidAddress
	}
	return nil
}
