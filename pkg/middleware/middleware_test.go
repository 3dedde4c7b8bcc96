package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/outlet-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/outlet-dashboard-api/pkg/log"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCors(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		wantStatus  int
		wantAllow   string
		wantCredits string
	}{
		{
			name:        "Origem liberada recebe credenciais",
			origins:     []string{"http://localhost:3000/"},
			method:      http.MethodGet,
			origin:      "http://localhost:3000",
			wantStatus:  http.StatusOK,
			wantAllow:   "http://localhost:3000",
			wantCredits: "true",
		},
		{
			name:       "Curinga libera qualquer origem",
			origins:    []string{"*"},
			method:     http.MethodGet,
			origin:     "https://painel.example.com",
			wantStatus: http.StatusOK,
			wantAllow:  "*",
		},
		{
			name:       "Origem desconhecida não recebe cabeçalhos",
			origins:    []string{"http://localhost:3000"},
			method:     http.MethodGet,
			origin:     "https://outro.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Preflight responde sem corpo",
			origins:    []string{"*"},
			method:     http.MethodOptions,
			origin:     "https://painel.example.com",
			wantStatus: http.StatusNoContent,
			wantAllow:  "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/filters", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			Cors(tt.origins)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredits, rec.Header().Get("Access-Control-Allow-Credentials"))
			if tt.wantAllow != "" {
				assert.Equal(t, CorrelationIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}

func TestLoggingMiddleware_CorrelationID(t *testing.T) {
	var seen string
	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = log.GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(CorrelationIDHeader, "painel-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "painel-123", seen)
	assert.Equal(t, "painel-123", rec.Header().Get(CorrelationIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "painel-123", seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("falha inesperada")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/growth", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}
