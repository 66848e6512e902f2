package ports

import "context"

// EntropyFormat is the encoding of the server entropy.
type EntropyFormat string

const (
	EntropyFormatHex EntropyFormat = "hex"
)

// ServerEntropyRepository is the client of the remote random bytes service.
type ServerEntropyRepository interface {
	// GetEntropy returns count random bytes encoded in the given format.
	GetEntropy(ctx context.Context, count int, format EntropyFormat) (string, error)
}

// LocalEntropyProvider returns count random bytes from a local source.
type LocalEntropyProvider interface {
	GetEntropy(count int) ([]byte, error)
}
