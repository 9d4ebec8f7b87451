package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/dto"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/entities"
	suberrors "github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/errors"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	createErr  error
	deleteErr  error
	lastParams deps.CreateSubscriptionParams
	created    int
}

func (s *stubEngine) Create(_ context.Context, params deps.CreateSubscriptionParams) (*entities.Subscription, error) {
	s.created++
	s.lastParams = params
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &entities.Subscription{
		Domain:         params.Domain,
		Model:          params.Model,
		Expires:        params.Expires,
		SubscriptionID: "sub-1",
	}, nil
}

func (s *stubEngine) ExpiringSubscriptions(context.Context) ([]entities.Subscription, error) {
	return nil, nil
}

func (s *stubEngine) Renew(context.Context, string) (*entities.Subscription, error) {
	return nil, nil
}

func (s *stubEngine) Sweep(context.Context) (int, int) { return 0, 0 }

func (s *stubEngine) Delete(context.Context, string) error { return s.deleteErr }

func newTestRouter(engine deps.LeaseEngine) *chi.Mux {
	router := chi.NewRouter()
	NewHandler(engine, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func doRequest(router *chi.Mux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateSubscription(t *testing.T) {
	engine := &stubEngine{}
	router := newTestRouter(engine)

	expires := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	body := `{"model":"call","domain":"example.com","post_url":"https://cb/x","expires":"` + expires + `"}`

	rec := doRequest(router, http.MethodPost, "/subscriptions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CreateSubscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "sub-1", resp.SubscriptionID)

	assert.Equal(t, "example.com", engine.lastParams.Domain)
	require.NotNil(t, engine.lastParams.PostURL)
	assert.Equal(t, "https://cb/x", *engine.lastParams.PostURL)
}

func TestHandler_CreateSubscription_LegacyTimestampFormat(t *testing.T) {
	engine := &stubEngine{}
	router := newTestRouter(engine)

	body := `{"model":"call","domain":"example.com","expires":"2026-09-01 12:00:00"}`

	rec := doRequest(router, http.MethodPost, "/subscriptions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	want := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, engine.lastParams.Expires.Equal(want))
	assert.Equal(t, time.UTC, engine.lastParams.Expires.Location())
}

func TestHandler_CreateSubscription_RejectsBeforeEngine(t *testing.T) {
	expires := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)

	tests := []struct {
		name string
		body string
	}{
		{"missing model", `{"domain":"example.com","expires":"` + expires + `"}`},
		{"missing domain", `{"model":"call","expires":"` + expires + `"}`},
		{"bad expires", `{"model":"call","domain":"example.com","expires":"tomorrow"}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &stubEngine{}
			router := newTestRouter(engine)

			rec := doRequest(router, http.MethodPost, "/subscriptions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, engine.created)
		})
	}
}

func TestHandler_CreateSubscription_ErrorMapping(t *testing.T) {
	expires := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	body := `{"model":"call","domain":"example.com","expires":"` + expires + `"}`

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", suberrors.ErrAlreadyExists, http.StatusConflict},
		{"remote failure", suberrors.ErrRemoteRegistration, http.StatusBadGateway},
		{"persistence failure", suberrors.ErrPersistence, http.StatusInternalServerError},
		{"inconsistency", suberrors.ErrInconsistency, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubEngine{createErr: tt.err})

			rec := doRequest(router, http.MethodPost, "/subscriptions", body)
			assert.Equal(t, tt.want, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandler_DeleteSubscription(t *testing.T) {
	router := newTestRouter(&stubEngine{})

	rec := doRequest(router, http.MethodDelete, "/subscriptions/sub-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_DeleteSubscription_NotFound(t *testing.T) {
	router := newTestRouter(&stubEngine{deleteErr: suberrors.ErrNotFound})

	rec := doRequest(router, http.MethodDelete, "/subscriptions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Status(t *testing.T) {
	router := newTestRouter(&stubEngine{})

	rec := doRequest(router, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}
