package domain

import "fmt"

// KeyPath addresses one field of the WalletRepoState.
type KeyPath string

const (
	KeyPathCredentials                 KeyPath = "credentials"
	KeyPathCredentialsGUID             KeyPath = "credentials.guid"
	KeyPathCredentialsSharedKey        KeyPath = "credentials.sharedKey"
	KeyPathCredentialsPassword         KeyPath = "credentials.password"
	KeyPathProperties                  KeyPath = "properties"
	KeyPathPropertiesLanguage          KeyPath = "properties.language"
	KeyPathPropertiesSyncPubKeys       KeyPath = "properties.syncPubKeys"
	KeyPathPropertiesAuthenticatorType KeyPath = "properties.authenticatorType"
	KeyPathPropertiesSessionToken      KeyPath = "properties.sessionToken"
	KeyPathEncryptedPayload            KeyPath = "encryptedPayload"
	KeyPathMetadata                    KeyPath = "metadata"
)

// WalletProperties are the non secret settings of a wallet session.
type WalletProperties struct {
	Language          string
	SyncPubKeys       bool
	AuthenticatorType int
	SessionToken      string
}

// WalletRepoState is the mutable state of a wallet session.
type WalletRepoState struct {
	Credentials      Credentials
	Properties       WalletProperties
	EncryptedPayload string
	Metadata         *MetadataState
}

// With returns a copy of the state with the field at the given path replaced
// by value.
func (s WalletRepoState) With(path KeyPath, value interface{}) (WalletRepoState, error) {
	var ok bool
	switch path {
	case KeyPathCredentials:
		s.Credentials, ok = value.(Credentials)
	case KeyPathCredentialsGUID:
		s.Credentials.GUID, ok = value.(string)
	case KeyPathCredentialsSharedKey:
		s.Credentials.SharedKey, ok = value.(string)
	case KeyPathCredentialsPassword:
		s.Credentials.Password, ok = value.(string)
	case KeyPathProperties:
		s.Properties, ok = value.(WalletProperties)
	case KeyPathPropertiesLanguage:
		s.Properties.Language, ok = value.(string)
	case KeyPathPropertiesSyncPubKeys:
		s.Properties.SyncPubKeys, ok = value.(bool)
	case KeyPathPropertiesAuthenticatorType:
		s.Properties.AuthenticatorType, ok = value.(int)
	case KeyPathPropertiesSessionToken:
		s.Properties.SessionToken, ok = value.(string)
	case KeyPathEncryptedPayload:
		s.EncryptedPayload, ok = value.(string)
	case KeyPathMetadata:
		s.Metadata, ok = value.(*MetadataState)
	default:
		return WalletRepoState{}, fmt.Errorf("%w: %s", ErrUnknownKeyPath, path)
	}
	if !ok {
		return WalletRepoState{}, fmt.Errorf(
			"%w: %s got %T", ErrInvalidKeyPathValue, path, value,
		)
	}
	return s, nil
}
