package metadataclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/internal/core/ports"
	"github.com/tdex-network/wallet-metadata/pkg/circuitbreaker"
	"github.com/tdex-network/wallet-metadata/pkg/util"
)

const metadataPath = "/metadata"

var (
	// ErrMissingURL ...
	ErrMissingURL = errors.New("missing metadata service url")
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
		return fmt.Errorf("invalid metadata service url: %s", err)
	}
	return nil
}

type client struct {
	baseURL    string
	httpClient *util.HTTPClient
	cb         *gobreaker.CircuitBreaker
}

// NewClient returns the HTTP client of a remote metadata store.
func NewClient(opts ClientOpts) (ports.MetadataTransport, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &client{
		baseURL:    strings.TrimSuffix(opts.URL, "/"),
		httpClient: util.NewHTTPClient(opts.Timeout, opts.RequestsPerSecond),
		cb:         circuitbreaker.NewCircuitBreaker("metadata"),
	}, nil
}

func (c *client) Fetch(
	ctx context.Context, address string,
) (*domain.MetadataPayload, error) {
	status, resp, err := c.request(ctx, http.MethodGet, address, "")
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrNotFound
	default:
		return nil, statusError(status, resp)
	}

	payload := &domain.MetadataPayload{}
	if err := json.Unmarshal([]byte(resp), payload); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedPayload, err)
	}
	return payload, nil
}

func (c *client) Put(
	ctx context.Context, address string, payload *domain.MetadataPayload,
) error {
	if payload == nil {
		return fmt.Errorf("%w: missing payload", domain.ErrMalformedPayload)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	status, resp, err := c.request(ctx, http.MethodPut, address, string(body))
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return domain.ErrStaleWrite
	default:
		return statusError(status, resp)
	}
}

type response struct {
	status int
	body   string
}

// request only counts network failures and server errors against the
// circuit breaker.
func (c *client) request(
	ctx context.Context, method, address, body string,
) (int, string, error) {
	endpoint := fmt.Sprintf(
		"%s%s/%s", c.baseURL, metadataPath, url.PathEscape(address),
	)
	header := map[string]string{"Content-Type": "application/json"}

	var serverErr *response
	iResp, err := c.cb.Execute(func() (interface{}, error) {
		status, resp, err := c.httpClient.NewHTTPRequest(
			ctx, method, endpoint, body, header,
		)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			serverErr = &response{status, resp}
			return nil, fmt.Errorf("server error %d", status)
		}
		return &response{status, resp}, nil
	})
	if err != nil {
		if serverErr != nil {
			return serverErr.status, serverErr.body, nil
		}
		log.WithError(err).Debugf("%s %s failed", method, endpoint)
		return 0, "", domain.NewTransportError(err)
	}

	resp := iResp.(*response)
	return resp.status, resp.body, nil
}

func statusError(status int, body string) error {
	return domain.NewTransportError(fmt.Errorf(
		"unexpected status %d: %s", status, strings.TrimSpace(body),
	))
}
