package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakif/skill-tracker/internal/apperror"
)

// protectedHandler records whether it ran and what claims it saw.
type protectedHandler struct {
	called bool
	claims *Claims
}

func (p *protectedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.called = true
	p.claims, _ = ClaimsFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func doRequest(t *testing.T, ts *TokenService, authorization string) (*httptest.ResponseRecorder, *protectedHandler) {
	t.Helper()

	inner := &protectedHandler{}
	gate := RequireAuth(ts)(inner)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()

	gate.ServeHTTP(rr, req)
	return rr, inner
}

func TestRequireAuth_NoHeader(t *testing.T) {
	ts := newTestTokenService(t)

	rr, inner := doRequest(t, ts, "")

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if inner.called {
		t.Error("handler should not run without a token")
	}
}

func TestRequireAuth_NotBearerScheme(t *testing.T) {
	ts := newTestTokenService(t)

	rr, inner := doRequest(t, ts, "Basic dXNlcjpwYXNz")

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if inner.called {
		t.Error("handler should not run for a non-bearer scheme")
	}
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	ts := newTestTokenService(t)

	rr, inner := doRequest(t, ts, "Bearer this.is.garbage")

	// A present-but-invalid token is forbidden, not unauthorized.
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if inner.called {
		t.Error("handler should not run for an invalid token")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration("user-123", "ann@x.com", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	rr, inner := doRequest(t, ts, "Bearer "+token)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if inner.called {
		t.Error("handler should not run for an expired token")
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123", "ann@x.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	rr, inner := doRequest(t, ts, "Bearer "+token)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !inner.called {
		t.Fatal("handler should run for a valid token")
	}
	if inner.claims == nil {
		t.Fatal("claims should be present in the request context")
	}
	if inner.claims.UserID != "user-123" {
		t.Errorf("claims.UserID = %q, want %q", inner.claims.UserID, "user-123")
	}
	if inner.claims.Email != "ann@x.com" {
		t.Errorf("claims.Email = %q, want %q", inner.claims.Email, "ann@x.com")
	}
}

func TestRequireAuth_SchemeIsCaseInsensitive(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Generate("user-123", "ann@x.com")

	rr, _ := doRequest(t, ts, "bearer "+token)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d for lowercase scheme", rr.Code, http.StatusOK)
	}
}

func TestRequireAuth_RejectionBodies(t *testing.T) {
	ts := newTestTokenService(t)

	// Rejections carry the messages of the apperror token constructors
	// in the standard {error, message} shape.
	rr, _ := doRequest(t, ts, "")
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding 401 body: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Errorf("401 error = %q, want %q", body["error"], "unauthorized")
	}
	if want := apperror.MissingToken().Message; body["message"] != want {
		t.Errorf("401 message = %q, want %q", body["message"], want)
	}

	rr, _ = doRequest(t, ts, "Bearer this.is.garbage")
	body = nil
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding 403 body: %v", err)
	}
	if body["error"] != "forbidden" {
		t.Errorf("403 error = %q, want %q", body["error"], "forbidden")
	}
	if body["message"] != "invalid or expired token" {
		t.Errorf("403 message = %q, want %q", body["message"], "invalid or expired token")
	}
}

func TestClaimsFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := ClaimsFromContext(req.Context()); ok {
		t.Error("ClaimsFromContext() should report absence on a bare context")
	}
}
