package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/dto"
	suberrors "github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/errors"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler is the admission surface: it validates incoming requests and
// forwards them to the lease engine.
type Handler struct {
	engine deps.LeaseEngine
	logger zerolog.Logger
}

func NewHandler(engine deps.LeaseEngine, logger zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/subscriptions", h.CreateSubscription)
	r.Delete("/subscriptions/{subscriptionID}", h.DeleteSubscription)
	r.Get("/status", h.Status)
}

func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Reject before touching the engine.
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "model must not be empty")
		return
	}
	if req.Domain == "" {
		writeError(w, http.StatusBadRequest, "domain must not be empty")
		return
	}

	expires, err := parseExpiry(req.Expires)
	if err != nil {
		writeError(w, http.StatusBadRequest, "expires must be an absolute timestamp, RFC 3339 or 2006-01-02 15:04:05")
		return
	}

	h.logger.Info().
		Str("model", req.Model).
		Str("domain", req.Domain).
		Msg("received subscription creation request")

	sub, err := h.engine.Create(r.Context(), deps.CreateSubscriptionParams{
		Domain:  req.Domain,
		Model:   req.Model,
		Expires: expires,
		PostURL: req.PostURL,
		User:    req.User,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateSubscriptionResponse{
		Status:         "success",
		SubscriptionID: sub.SubscriptionID,
		Expires:        sub.Expires.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	subscriptionID := chi.URLParam(r, "subscriptionID")

	if err := h.engine.Delete(r.Context(), subscriptionID); err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Service is running!"})
}

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, suberrors.ErrInvalidDomain),
		errors.Is(err, suberrors.ErrInvalidModel),
		errors.Is(err, suberrors.ErrInvalidExpiry):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, suberrors.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, suberrors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, suberrors.ErrRemoteRegistration):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error().Err(err).Msg("subscription request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseExpiry(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
