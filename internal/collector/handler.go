// Package collector is a development sink for the MarketIn collection API.
// It accepts the same requests as the hosted endpoint and keeps them for
// inspection.
package collector

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/server"
)

// MaxBodyBytes caps a single event body.
const MaxBodyBytes = 1 << 20

var knownKinds = map[domain.EventKind]bool{
	domain.EventPageView:         true,
	domain.EventAffiliateClick:   true,
	domain.EventConversion:       true,
	domain.EventPublicConversion: true,
	domain.EventCrawl:            true,
}

// Handler serves the collection API over an EventStore.
type Handler struct {
	store  EventStore
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler returns a Handler that records into store.
func NewHandler(store EventStore, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger, now: time.Now}
}

// Routes mounts the collection API under /api/v1 and the inspection
// endpoints at /events and /healthz.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/{kind}", h.handleEvent)
		r.Post("/{kind}/", h.handleEvent)
	})
	r.Get("/events", h.handleList)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	kind := domain.EventKind(chi.URLParam(r, "kind"))
	server.AddLogField(r.Context(), "event_kind", string(kind))

	if !knownKinds[kind] {
		writeError(w, http.StatusNotFound, "unknown event kind")
		return
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if kind == domain.EventConversion && token == "" {
		writeError(w, http.StatusUnauthorized, "log-conversion requires a bearer token")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusUnprocessableEntity, "body is not valid JSON")
		return
	}

	e := &Event{
		Kind:       kind,
		RequestID:  server.GetRequestID(r.Context()),
		CampaignID: r.Header.Get("X-CAMPAIGN-ID"),
		BrandID:    r.Header.Get("X-BRAND-ID"),
		SDKVersion: r.Header.Get("X-MarketIn-SDK"),
		Authorized: token != "",
		Body:       json.RawMessage(body),
		ReceivedAt: h.now().UTC(),
	}
	if err := h.store.Record(r.Context(), e); err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to record event")
		return
	}

	h.logger.Debug("event recorded",
		slog.Int64("id", e.ID),
		slog.String("kind", string(kind)),
		slog.String("campaign_id", e.CampaignID),
	)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": e.ID})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	events, err := h.store.List(r.Context(), domain.EventKind(r.URL.Query().Get("kind")), limit)
	if err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
