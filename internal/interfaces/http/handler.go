package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/application/store"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
)

const maxBodySize = 1 << 20

// ErrorResponse is the body of any non successful response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type metadataHandler struct {
	storeSvc *store.Service
}

func (h *metadataHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	entry, err := h.storeSvc.Get(r.Context(), address)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *metadataHandler) PutEntry(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	payload := &domain.MetadataPayload{}
	if err := json.NewDecoder(
		http.MaxBytesReader(w, r.Body, maxBodySize),
	).Decode(payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.storeSvc.Put(r.Context(), address, payload); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStaleWrite):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidAddress),
		errors.Is(err, store.ErrInvalidVersion),
		errors.Is(err, store.ErrNullPayload),
		errors.Is(err, store.ErrNullSignature),
		errors.Is(err, store.ErrInvalidSignature),
		errors.Is(err, domain.ErrMalformedPayload),
		errors.Is(err, domain.ErrUnknownEntryType):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).Warn("unexpected error while serving request")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
