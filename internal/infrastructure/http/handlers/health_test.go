package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var body readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func ok(context.Context) error { return nil }

func TestLiveness(t *testing.T) {
	rec, _ := serve(t, NewHealthHandler().Liveness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Pinger{
		"postgres": PingFunc(ok),
		"mongodb":  PingFunc(ok),
		"redis":    PingFunc(ok),
	})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.Status != "ok" || len(body.Dependencies) != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Pinger{
		"postgres": PingFunc(ok),
		"search": PingFunc(func(context.Context) error {
			return errors.New("connection refused")
		}),
	})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body.Status != "degraded" {
		t.Fatalf("expected degraded, got %q", body.Status)
	}
	if got := body.Dependencies["search"]; got.Status != "unhealthy" || got.Error != "connection refused" {
		t.Fatalf("unexpected search status: %+v", got)
	}
	if got := body.Dependencies["postgres"]; got.Status != "ok" {
		t.Fatalf("unexpected postgres status: %+v", got)
	}
}
