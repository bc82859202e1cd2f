package authn

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/sdk/meta"
	"github.com/stretchr/testify/require"
)

func TestTokenAuthFilterWithHeaderMissing(t *testing.T) {
	a := NewTokenAuthFilter(nil, nil)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	handlerCalled := false
	a.Decorate(func(http.ResponseWriter, *http.Request) {
		handlerCalled = true
	})(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, handlerCalled)
}

func TestTokenAuthFilterWithHeaderNotBearer(t *testing.T) {
	a := NewTokenAuthFilter(nil, nil)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Add("Authorization", "Digest foo")
	rr := httptest.NewRecorder()
	handlerCalled := false
	a.Decorate(func(http.ResponseWriter, *http.Request) {
		handlerCalled = true
	})(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, handlerCalled)
}

func TestTokenAuthFilterWithTokenInvalid(t *testing.T) {
	a := NewTokenAuthFilter(
		func(context.Context, string) (authx.Session, error) {
			return authx.Session{}, &meta.ErrNotFound{}
		},
		nil,
	)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Add(
		"Authorization",
		fmt.Sprintf("Bearer %s", "foo"),
	)
	rr := httptest.NewRecorder()
	handlerCalled := false
	a.Decorate(func(http.ResponseWriter, *http.Request) {
		handlerCalled = true
	})(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, handlerCalled)
}

func TestTokenAuthFilterWithExpiredSession(t *testing.T) {
	a := NewTokenAuthFilter(
		func(context.Context, string) (authx.Session, error) {
			authenticated := time.Now().Add(-2 * time.Hour)
			expiry := time.Now().Add(-time.Hour)
			return authx.Session{
				Authenticated: &authenticated,
				Expires:       &expiry,
			}, nil
		},
		nil,
	)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Add("Authorization", "Bearer foobar")
	rr := httptest.NewRecorder()
	var handlerCalled bool
	a.Decorate(func(http.ResponseWriter, *http.Request) {
		handlerCalled = true
	})(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, handlerCalled)
}

func TestTokenAuthFilterWithDeactivatedUser(t *testing.T) {
	a := NewTokenAuthFilter(
		func(context.Context, string) (authx.Session, error) {
			now := time.Now()
			expiry := now.Add(time.Hour)
			return authx.Session{
				Authenticated: &now,
				Expires:       &expiry,
			}, nil
		},
		func(context.Context, string) (authx.User, error) {
			deactivated := time.Now()
			return authx.User{
				Deactivated: &deactivated,
			}, nil
		},
	)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Add("Authorization", "Bearer foobar")
	rr := httptest.NewRecorder()
	var handlerCalled bool
	a.Decorate(func(http.ResponseWriter, *http.Request) {
		handlerCalled = true
	})(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.False(t, handlerCalled)
}

func TestTokenAuthFilterWithAuthenticatedSession(t *testing.T) {
	const sessionID = "foobar"
	const userID = "tony@example.com"
	a := NewTokenAuthFilter(
		func(context.Context, string) (authx.Session, error) {
			now := time.Now()
			expiry := now.Add(time.Minute)
			return authx.Session{
				ObjectMeta: meta.ObjectMeta{
					ID: sessionID,
				},
				UserID:        userID,
				Authenticated: &now,
				Expires:       &expiry,
			}, nil
		},
		func(context.Context, string) (authx.User, error) {
			return authx.User{
				ObjectMeta: meta.ObjectMeta{
					ID: userID,
				},
			}, nil
		},
	)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Add("Authorization", "Bearer foobar")
	rr := httptest.NewRecorder()
	var handlerCalled bool
	a.Decorate(func(_ http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		principal := authx.PrincipalFromContext(r.Context())
		require.NotNil(t, principal)
		require.Equal(t, userID, principal.ID)
		require.Equal(t, sessionID, authx.SessionIDFromContext(r.Context()))
	})(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, handlerCalled)
}
