package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDerivationFailed is returned when key material is malformed or a
	// derivation step is not allowed (ie. hardened from public key)
	ErrDerivationFailed = errors.New("key derivation failed")
	// ErrInvalidMnemonic is returned by recovery before any network call if
	// the given mnemonic is not a valid BIP39 one
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrNotYetCreated is returned when the addressed entry has never been
	// written to the remote store
	ErrNotYetCreated = errors.New("metadata entry not yet created")
	// ErrDecryptionFailed is returned when an entry cannot be decrypted with
	// any of the keys of its node
	ErrDecryptionFailed = errors.New("failed to decrypt metadata entry")
	// ErrMalformedPayload is returned when an entry does not have the
	// expected shape, or its signature does not match its address
	ErrMalformedPayload = errors.New("malformed metadata payload")
	// ErrTransport is matched by any error wrapped into a TransportError
	ErrTransport = errors.New("metadata transport failure")
	// ErrServerEntropyInvalid ...
	ErrServerEntropyInvalid = errors.New("server entropy is invalid")
	// ErrLocalEntropyInvalid ...
	ErrLocalEntropyInvalid = errors.New("local entropy is invalid")

	// ErrNotFound must be returned by transports when the address is unknown
	ErrNotFound = errors.New("not found")
	// ErrStaleWrite is returned by the store when the previous magic hash of
	// a write does not match the current head of the chain
	ErrStaleWrite = errors.New("stale write: previous magic hash mismatch")

	// ErrUnknownEntryType ...
	ErrUnknownEntryType = errors.New("unknown entry type")
	// ErrNullCredentials ...
	ErrNullCredentials = errors.New("credentials guid, shared key and password must not be null")
	// ErrUnknownKeyPath ...
	ErrUnknownKeyPath = errors.New("unknown key path")
	// ErrInvalidKeyPathValue ...
	ErrInvalidKeyPathValue = errors.New("invalid value type for key path")
	// ErrNullEncryptedPayload ...
	ErrNullEncryptedPayload = errors.New("wallet encrypted payload is null")
	// ErrWrongPassword ...
	ErrWrongPassword = errors.New("password does not match the current one")
)

// TransportError wraps any failure of the remote transport other than not
// found.
type TransportError struct {
	Err error
}

// NewTransportError ...
func NewTransportError(err error) error {
	return &TransportError{err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) true for any TransportError
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ErrorKind classifies the errors returned by the engine.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDerivationFailed
	KindNotYetCreated
	KindDecryptionFailed
	KindMalformedPayload
	KindTransport
	KindServerEntropyInvalid
	KindLocalEntropyInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindDerivationFailed:
		return "derivationFailed"
	case KindNotYetCreated:
		return "notYetCreated"
	case KindDecryptionFailed:
		return "decryptionFailed"
	case KindMalformedPayload:
		return "malformedPayload"
	case KindTransport:
		return "transport"
	case KindServerEntropyInvalid:
		return "rngInvalid(server)"
	case KindLocalEntropyInvalid:
		return "rngInvalid(local)"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of the given error
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrDerivationFailed), errors.Is(err, ErrInvalidMnemonic):
		return KindDerivationFailed
	case errors.Is(err, ErrNotYetCreated):
		return KindNotYetCreated
	case errors.Is(err, ErrDecryptionFailed):
		return KindDecryptionFailed
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformedPayload
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrServerEntropyInvalid):
		return KindServerEntropyInvalid
	case errors.Is(err, ErrLocalEntropyInvalid):
		return KindLocalEntropyInvalid
	default:
		return KindUnknown
	}
}
