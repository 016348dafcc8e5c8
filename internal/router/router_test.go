package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sportline-pos/api/internal/auth"
	"github.com/sportline-pos/api/internal/config"
	"github.com/sportline-pos/api/internal/database"
	"github.com/sportline-pos/api/internal/enum"
	"github.com/sportline-pos/api/internal/ws"
)

func testRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	hub := ws.NewHub()
	go hub.Run()
	return New(cfg, database.New(nil), hub)
}

func doDraftCreate(t *testing.T, r http.Handler, role string, secret string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken(secret, uuid.New(), role)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/drafts", strings.NewReader(`{"kind":"SALE"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestDraftRoutesRequireSellingRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := testRouter(t, cfg)

	if rr := doDraftCreate(t, r, enum.UserRoleAuditor, cfg.JWTSecret); rr.Code != http.StatusForbidden {
		t.Errorf("auditor create draft: got %d, want %d", rr.Code, http.StatusForbidden)
	}
	if rr := doDraftCreate(t, r, enum.UserRoleSeller, cfg.JWTSecret); rr.Code != http.StatusCreated {
		t.Errorf("seller create draft: got %d, want %d (body: %s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if rr := doDraftCreate(t, r, enum.UserRoleAdmin, cfg.JWTSecret); rr.Code != http.StatusCreated {
		t.Errorf("admin create draft: got %d, want %d", rr.Code, http.StatusCreated)
	}
}

func TestDraftRoutesRequireAuthentication(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := testRouter(t, cfg)

	req := httptest.NewRequest("POST", "/drafts", strings.NewReader(`{"kind":"SALE"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated create draft: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
