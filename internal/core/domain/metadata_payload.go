package domain

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MetadataPayloadVersion is the only version accepted by the remote store.
const MetadataPayloadVersion = 1

// MetadataPayload is the wire representation of an entry.
type MetadataPayload struct {
	Version       int    `json:"version"`
	Payload       string `json:"payload"`
	Signature     string `json:"signature,omitempty"`
	PrevMagicHash string `json:"prev_magic_hash,omitempty"`
	TypeID        int32  `json:"type_id"`
	// Read only fields set by the remote store.
	Address   string `json:"address,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

// DecodedPayload returns the ciphertext bytes.
func (p *MetadataPayload) DecodedPayload() ([]byte, error) {
	buf, err := base64.StdEncoding.DecodeString(p.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not base64", ErrMalformedPayload)
	}
	return buf, nil
}

// DecodedPrevMagicHash returns nil if the entry is the first of the chain.
func (p *MetadataPayload) DecodedPrevMagicHash() ([]byte, error) {
	if p.PrevMagicHash == "" {
		return nil, nil
	}
	buf, err := hex.DecodeString(p.PrevMagicHash)
	if err != nil {
		return nil, fmt.Errorf("%w: prev magic hash is not hex", ErrMalformedPayload)
	}
	return buf, nil
}

// RemoteMetadataNodesPayload is the plaintext content of the root entry.
type RemoteMetadataNodesPayload struct {
	Metadata string `json:"metadata"`
	Mdid     string `json:"mdid"`
}

func (p RemoteMetadataNodesPayload) Validate() error {
	if p.Metadata == "" || p.Mdid == "" {
		return fmt.Errorf("%w: missing metadata or mdid node", ErrMalformedPayload)
	}
	return nil
}

// ParseRemoteMetadataNodesPayload parses the plaintext of the root entry.
// Both extended keys must be present.
func ParseRemoteMetadataNodesPayload(plaintext string) (*RemoteMetadataNodesPayload, error) {
	p := &RemoteMetadataNodesPayload{}
	if err := json.Unmarshal([]byte(plaintext), p); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Nodes parses the extended keys of the payload.
func (p RemoteMetadataNodesPayload) Nodes() (*RemoteMetadataNodes, error) {
	return NewRemoteMetadataNodesFromXprvs(p.Metadata, p.Mdid)
}

// Serialize returns the JSON plaintext of the root entry
func (p RemoteMetadataNodesPayload) Serialize() string {
	buf, _ := json.Marshal(p)
	return string(buf)
}
