package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/strataevents/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type downPinger struct{}

func (downPinger) Ping(context.Context, *readpref.ReadPref) error {
	return errors.New("no reachable servers")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandler_Check(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decode(t, rec)
	if resp.Status != "ok" || resp.Services["mongodb"] != "ok" {
		t.Errorf("Check() = %+v", resp)
	}
}

func TestHandler_Check_Degraded(t *testing.T) {
	h := NewHandler(downPinger{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Check() status = %d, want 503", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Status != "degraded" || resp.Services["mongodb"] != "unavailable" {
		t.Errorf("Check() = %+v", resp)
	}
}

func TestHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		pinger     func(t *testing.T) Pinger
		wantStatus int
		wantBody   string
	}{
		{"up", func(t *testing.T) Pinger { return testutil.SetupTestDB(t).Client() }, http.StatusOK, "ready"},
		{"down", func(*testing.T) Pinger { return downPinger{} }, http.StatusServiceUnavailable, "not ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.pinger(t), zap.NewNop())
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("Ready() status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decode(t, rec).Status; got != tt.wantBody {
				t.Errorf("Ready() status field = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestHandler_Live(t *testing.T) {
	h := NewHandler(downPinger{}, zap.NewNop())
	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want 200", rec.Code)
	}
	if got := decode(t, rec).Status; got != "alive" {
		t.Errorf("Live() status field = %q", got)
	}
}

func TestMountRootEndpoints(t *testing.T) {
	h := NewHandler(downPinger{}, zap.NewNop())
	r := chi.NewRouter()
	MountRootEndpoints(r, h)
	r.Mount("/health", Routes(h))

	tests := []struct {
		path string
		want int
	}{
		{"/livez", http.StatusOK},
		{"/ready", http.StatusServiceUnavailable},
		{"/readyz", http.StatusServiceUnavailable},
		{"/health", http.StatusServiceUnavailable},
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
