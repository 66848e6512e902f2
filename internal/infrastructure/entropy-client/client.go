package entropyclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tdex-network/wallet-metadata/internal/core/ports"
	"github.com/tdex-network/wallet-metadata/pkg/circuitbreaker"
	"github.com/tdex-network/wallet-metadata/pkg/util"
)

const randomBytesPath = "/v2/randombytes"

var (
	// ErrMissingURL ...
	ErrMissingURL = errors.New("missing entropy service url")
	// ErrInvalidCount ...
	ErrInvalidCount = errors.New("number of random bytes must be positive")
)

// ClientOpts ...
type ClientOpts struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond int
}

func (o ClientOpts) validate() error {
	if o.URL == "" {
		return ErrMissingURL
	}
	if _, err := url.Parse(o.URL); err != nil {
		return fmt.Errorf("invalid entropy service url: %s", err)
	}
	return nil
}

type client struct {
	baseURL    string
	httpClient *util.HTTPClient
	cb         *gobreaker.CircuitBreaker
}

// NewClient returns the HTTP client of the remote random bytes service.
func NewClient(opts ClientOpts) (ports.ServerEntropyRepository, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &client{
		baseURL:    strings.TrimSuffix(opts.URL, "/"),
		httpClient: util.NewHTTPClient(opts.Timeout, opts.RequestsPerSecond),
		cb:         circuitbreaker.NewCircuitBreaker("entropy"),
	}, nil
}

func (c *client) GetEntropy(
	ctx context.Context, count int, format ports.EntropyFormat,
) (string, error) {
	if count <= 0 {
		return "", ErrInvalidCount
	}

	query := url.Values{}
	query.Set("bytes", fmt.Sprintf("%d", count))
	query.Set("format", string(format))
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, randomBytesPath, query.Encode())

	iResp, err := c.cb.Execute(func() (interface{}, error) {
		status, resp, err := c.httpClient.NewHTTPRequest(
			ctx, http.MethodGet, endpoint, "", nil,
		)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(
				"unexpected status %d: %s", status, strings.TrimSpace(resp),
			)
		}
		return resp, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get entropy from server: %w", err)
	}

	return strings.TrimSpace(iResp.(string)), nil
}
