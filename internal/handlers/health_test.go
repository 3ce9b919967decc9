package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthReportsOK(t *testing.T) {
	api := newTestAPI(t)

	rr := httptest.NewRecorder()
	api.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := healthResponse{}
	decodeResponse(t, rr, &resp)
	if resp.Status != "ok" || resp.Database != "ok" {
		t.Fatalf("unexpected health payload: %+v", resp)
	}
}
