package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrms/internal/domain/auth"
	"hrms/internal/requestctx"
)

type fakeVerifier struct {
	claims *auth.Claims
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if token == "good" && f.claims != nil {
		return f.claims, nil
	}
	return nil, errors.New("invalid token")
}

func TestAuthenticateAttachesClaims(t *testing.T) {
	verifier := &fakeVerifier{claims: &auth.Claims{UserID: 9, OrganizationID: 1, Role: auth.RoleHR}}

	var seen *auth.Claims
	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestctx.GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.UserID != 9 {
		t.Fatalf("expected claims for user 9, got %+v", seen)
	}
}

func TestAuthenticateIgnoresBadToken(t *testing.T) {
	verifier := &fakeVerifier{}

	var seen *auth.Claims
	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestctx.GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != nil {
		t.Fatalf("expected no claims, got %+v", seen)
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequirePayrollManager(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{auth.RoleAdmin, http.StatusOK},
		{auth.RoleHR, http.StatusOK},
		{auth.RoleEmployee, http.StatusForbidden},
	}

	for _, tc := range cases {
		handler := RequirePayrollManager(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(requestctx.WithClaims(req.Context(), &auth.Claims{UserID: 1, Role: tc.role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("role %s: expected %d, got %d", tc.role, tc.want, rec.Code)
		}
	}
}
