package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/skill-tracker/internal/auth"
	"github.com/sakif/skill-tracker/internal/handler"
	sqliteRepo "github.com/sakif/skill-tracker/internal/repository/sqlite"
	"github.com/sakif/skill-tracker/internal/service"
)

// newAuthTestRouter wires the real service stack on an in-memory sqlite
// database and returns a router with the auth routes mounted, mirroring
// the production route table.
func newAuthTestRouter(t *testing.T, tokenTTL time.Duration) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", tokenTTL)
	require.NoError(t, err)
	passwords := auth.NewPasswordService(bcrypt.MinCost)

	authService := service.NewAuthService(db.Users(), tokens, passwords, logger)
	authHandler := handler.NewAuthHandler(authService, nil, logger)

	r := chi.NewRouter()
	r.Post("/register", authHandler.HandleRegister)
	r.Post("/login", authHandler.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/dashboard", authHandler.HandleDashboard)
	})
	return r
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

type authResponseBody struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func TestHandleRegister(t *testing.T) {
	t.Run("valid registration", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)

		rr := postJSON(router, "/register",
			`{"name":"Ann","email":"ann@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var res authResponseBody
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Token)
		assert.NotEmpty(t, res.User.ID)
		assert.Equal(t, "Ann", res.User.Name)
		assert.Equal(t, "ann@x.com", res.User.Email)

		// The raw body must never contain hash material.
		assert.NotContains(t, rr.Body.String(), "passwordHash")
	})

	t.Run("missing field", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)

		rr := postJSON(router, "/register", `{"name":"Ann","email":"ann@x.com"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)

		rr := postJSON(router, "/register", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)

		first := postJSON(router, "/register",
			`{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(router, "/register",
			`{"name":"Ann Again","email":"ann@x.com","password":"other"}`)
		assert.Equal(t, http.StatusConflict, second.Code)
	})
}

func TestHandleLogin(t *testing.T) {
	register := func(t *testing.T, router http.Handler) {
		t.Helper()
		rr := postJSON(router, "/register",
			`{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	t.Run("correct credentials", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)
		register(t, router)

		rr := postJSON(router, "/login", `{"email":"ann@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res authResponseBody
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "ann@x.com", res.User.Email)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)
		register(t, router)

		wrongPassword := postJSON(router, "/login", `{"email":"ann@x.com","password":"nope"}`)
		unknownEmail := postJSON(router, "/login", `{"email":"ghost@x.com","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("missing field", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)

		rr := postJSON(router, "/login", `{"email":"ann@x.com"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleDashboard(t *testing.T) {
	getDashboard := func(router http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("no token", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)

		rr := getDashboard(router, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		router := newAuthTestRouter(t, time.Hour)

		rr := getDashboard(router, "this.is.garbage")
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("register then dashboard then expiry", func(t *testing.T) {
		// Token TTL of one second lets the expiry leg run without
		// manipulating clocks.
		router := newAuthTestRouter(t, time.Second)

		reg := postJSON(router, "/register",
			`{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
		require.Equal(t, http.StatusCreated, reg.Code)

		var res authResponseBody
		require.NoError(t, json.NewDecoder(reg.Body).Decode(&res))
		require.NotEmpty(t, res.Token)

		// Immediately after issuance the token is accepted.
		ok := getDashboard(router, res.Token)
		require.Equal(t, http.StatusOK, ok.Code)

		var dash struct {
			Message string `json:"message"`
			User    struct {
				UserID string `json:"userId"`
				Email  string `json:"email"`
			} `json:"user"`
		}
		require.NoError(t, json.NewDecoder(ok.Body).Decode(&dash))
		assert.Equal(t, "Welcome to your dashboard", dash.Message)
		assert.Equal(t, res.User.ID, dash.User.UserID)
		assert.Equal(t, "ann@x.com", dash.User.Email)

		// Past the expiry the same token is rejected with 403.
		time.Sleep(1100 * time.Millisecond)

		expired := getDashboard(router, res.Token)
		assert.Equal(t, http.StatusForbidden, expired.Code)
	})
}
