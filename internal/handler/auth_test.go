package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportline-pos/api/internal/database"
)

const testSecret = "test-secret"

type mockAuthStore struct {
	getUserByUsernameFn func(ctx context.Context, username string) (database.User, error)
	getUserByIDFn       func(ctx context.Context, id uuid.UUID) (database.User, error)
}

func (m *mockAuthStore) GetUserByUsername(ctx context.Context, username string) (database.User, error) {
	if m.getUserByUsernameFn != nil {
		return m.getUserByUsernameFn(ctx, username)
	}
	return database.User{}, pgx.ErrNoRows
}

func (m *mockAuthStore) GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, id)
	}
	return database.User{}, pgx.ErrNoRows
}

func authRouter(store *mockAuthStore) http.Handler {
	r := chi.NewRouter()
	NewAuthHandler(store, testSecret).RegisterRoutes(r)
	return r
}

func testUser(t *testing.T, password string) database.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return database.User{
		ID:           uuid.New(),
		Username:     "vendedor1",
		PasswordHash: string(hash),
		Role:         "SELLER",
		Active:       true,
	}
}

func TestLogin_Success(t *testing.T) {
	user := testUser(t, "secreto123")
	router := authRouter(&mockAuthStore{
		getUserByUsernameFn: func(ctx context.Context, username string) (database.User, error) {
			if username == user.Username {
				return user, nil
			}
			return database.User{}, pgx.ErrNoRows
		},
	})

	body, _ := json.Marshal(map[string]string{"username": "vendedor1", "password": "secreto123"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens in response")
	}
	if resp.User.Username != "vendedor1" || resp.User.Role != "SELLER" {
		t.Errorf("user = %+v", resp.User)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUser(t, "secreto123")
	router := authRouter(&mockAuthStore{
		getUserByUsernameFn: func(ctx context.Context, username string) (database.User, error) {
			return user, nil
		},
	})

	body, _ := json.Marshal(map[string]string{"username": "vendedor1", "password": "wrong"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	router := authRouter(&mockAuthStore{})

	body, _ := json.Marshal(map[string]string{"username": "nobody", "password": "x"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	user := testUser(t, "secreto123")
	user.Active = false
	router := authRouter(&mockAuthStore{
		getUserByUsernameFn: func(ctx context.Context, username string) (database.User, error) {
			return user, nil
		},
	})

	body, _ := json.Marshal(map[string]string{"username": "vendedor1", "password": "secreto123"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router := authRouter(&mockAuthStore{})

	body, _ := json.Marshal(map[string]string{"username": "vendedor1"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRefresh_RoundTrip(t *testing.T) {
	user := testUser(t, "secreto123")
	router := authRouter(&mockAuthStore{
		getUserByUsernameFn: func(ctx context.Context, username string) (database.User, error) {
			return user, nil
		},
		getUserByIDFn: func(ctx context.Context, id uuid.UUID) (database.User, error) {
			if id == user.ID {
				return user, nil
			}
			return database.User{}, pgx.ErrNoRows
		},
	})

	// Login first to obtain a refresh token.
	body, _ := json.Marshal(map[string]string{"username": "vendedor1", "password": "secreto123"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var login tokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &login); err != nil {
		t.Fatal(err)
	}

	body, _ = json.Marshal(map[string]string{"refresh_token": login.RefreshToken})
	req = httptest.NewRequest("POST", "/auth/refresh", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var refreshed tokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &refreshed); err != nil {
		t.Fatal(err)
	}
	if refreshed.AccessToken == "" {
		t.Error("expected new access token")
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	router := authRouter(&mockAuthStore{})

	body, _ := json.Marshal(map[string]string{"refresh_token": "garbage"})
	req := httptest.NewRequest("POST", "/auth/refresh", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
