package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAPIToken_ValidToken(t *testing.T) {
	handler := RequireAPIToken("secret", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	req.Header.Set("X-API-Token", "secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRequireAPIToken_MissingToken(t *testing.T) {
	handler := RequireAPIToken("secret", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAPIToken_WrongToken(t *testing.T) {
	handler := RequireAPIToken("secret", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	req.Header.Set("X-API-Token", "wrong")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAPIToken_EmptyConfiguredTokenDisablesGate(t *testing.T) {
	handler := RequireAPIToken("", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with gate disabled, got %d", rec.Code)
	}
}

func TestRequireIngestToken_UsesIngestHeader(t *testing.T) {
	handler := RequireIngestToken("ingest-secret", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/dpc/ingest", nil)
	req.Header.Set("X-API-Token", "ingest-secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when token sent on wrong header, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/dpc/ingest", nil)
	req.Header.Set("X-Ingest-Token", "ingest-secret")
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
