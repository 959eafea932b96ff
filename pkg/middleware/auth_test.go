package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/TuanVuuuu/petcare-api/pkg/errors"
)

func okVerifier(t *testing.T) TokenVerifier {
	t.Helper()
	return func(ctx context.Context, token string) (*Claims, error) {
		return &Claims{UID: "uid-1", Email: "a@b.com", Expires: time.Now().Add(time.Hour)}, nil
	}
}

func TestAuth_MissingHeader_NoVerifierCall(t *testing.T) {
	verifierCalled := false
	verify := func(ctx context.Context, token string) (*Claims, error) {
		verifierCalled = true
		return nil, nil
	}

	handler := Auth(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pets", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, verifierCalled, "verifier must not be called without a header")
	assert.Contains(t, rr.Body.String(), "missing authorization header")
}

func TestAuth_MalformedHeader_NoVerifierCall(t *testing.T) {
	verifierCalled := false
	verify := func(ctx context.Context, token string) (*Claims, error) {
		verifierCalled = true
		return nil, nil
	}

	handler := Auth(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	for _, header := range []string{"Basic abc", "Bearer", "Bearer "} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/pets", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
	}
	assert.False(t, verifierCalled)
}

func TestAuth_ValidToken_InjectsClaims(t *testing.T) {
	var gotUID string
	var gotClaims *Claims
	handler := Auth(okVerifier(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = UserIDFromContext(r.Context())
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pets", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "uid-1", gotUID)
	assert.Equal(t, "a@b.com", gotClaims.Email)
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	handler := Auth(okVerifier(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pets", nil)
	req.Header.Set("Authorization", "bearer tok-abc")
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuth_RevokedToken_SurfacesRevokedMessage(t *testing.T) {
	verify := func(ctx context.Context, token string) (*Claims, error) {
		return nil, apperrors.Unauthorized("token revoked by logout")
	}

	handler := Auth(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pets", nil)
	req.Header.Set("Authorization", "Bearer revoked-tok")
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "token revoked by logout")
}

func TestAuth_GenericVerifyFailure(t *testing.T) {
	verify := func(ctx context.Context, token string) (*Claims, error) {
		return nil, assert.AnError
	}

	handler := Auth(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pets", nil)
	req.Header.Set("Authorization", "Bearer bad-tok")
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid or expired token")
}

func TestUserIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, UserIDFromContext(context.Background()))
	assert.Nil(t, ClaimsFromContext(context.Background()))
}
