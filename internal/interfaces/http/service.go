package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/application/store"
	"github.com/tdex-network/wallet-metadata/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Address   string
	NoMetrics bool

	StoreSvc *store.Service
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if o.StoreSvc == nil {
		return fmt.Errorf("missing store service")
	}
	return nil
}

type service struct {
	opts     ServiceOpts
	server   *http.Server
	listener net.Listener
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Handler:           NewRouter(opts.StoreSvc, !opts.NoMetrics),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	s.listener = lis

	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metadata interface stopped unexpectedly")
		}
	}()

	log.Infof("metadata interface listening on %s", lis.Addr())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop metadata interface")
	}
	log.Debug("disabled metadata interface")
}

func (s *service) Address() string {
	if s.listener == nil {
		return s.opts.Address
	}
	return s.listener.Addr().String()
}

// NewRouter returns the router serving the metadata entries and, if enabled,
// the prometheus metrics.
func NewRouter(storeSvc *store.Service, withMetrics bool) http.Handler {
	h := &metadataHandler{storeSvc}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if withMetrics {
		registry := prometheus.NewRegistry()
		m := newMetrics(registry, storeSvc)
		r.Use(m.middleware)
		r.Handle("/metrics", promhttp.HandlerFor(
			registry, promhttp.HandlerOpts{Registry: registry},
		))
	}

	r.Get("/metadata/{address}", h.GetEntry)
	r.Put("/metadata/{address}", h.PutEntry)

	return r
}
