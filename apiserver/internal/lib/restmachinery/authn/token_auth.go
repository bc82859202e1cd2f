package authn

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/apiserver/internal/lib/restmachinery"
	"github.com/postwright/postwright/sdk/meta"
)

// FindSessionFn is the signature for a function that locates the Session
// a bearer token belongs to.
type FindSessionFn func(
	ctx context.Context,
	token string,
) (authx.Session, error)

// FindUserFn is the signature for a function that locates a User by ID.
type FindUserFn func(
	ctx context.Context,
	id string,
) (authx.User, error)

type tokenAuthFilter struct {
	findSession FindSessionFn
	findUser    FindUserFn
}

// NewTokenAuthFilter returns an implementation of the restmachinery.Filter
// interface that authenticates requests using a bearer token.
func NewTokenAuthFilter(
	findSession FindSessionFn,
	findUser FindUserFn,
) restmachinery.Filter {
	return &tokenAuthFilter{
		findSession: findSession,
		findUser:    findUser,
	}
}

func (t *tokenAuthFilter) Decorate(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headerValue := r.Header.Get("Authorization")
		if headerValue == "" {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&meta.ErrAuthentication{
					Reason: `"Authorization" header is missing.`,
				},
			)
			return
		}
		headerValueParts := strings.SplitN(
			r.Header.Get("Authorization"),
			" ",
			2,
		)
		if len(headerValueParts) != 2 || headerValueParts[0] != "Bearer" {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&meta.ErrAuthentication{
					Reason: `"Authorization" header is malformed.`,
				},
			)
			return
		}
		token := headerValueParts[1]

		session, err := t.findSession(r.Context(), token)
		if err != nil {
			if _, ok := errors.Cause(err).(*meta.ErrNotFound); ok {
				t.writeResponse(
					w,
					http.StatusUnauthorized,
					&meta.ErrAuthentication{
						Reason: "Session not found. Please log in again.",
					},
				)
				return
			}
			log.Println(err)
			t.writeResponse(
				w,
				http.StatusInternalServerError,
				&meta.ErrInternalServer{},
			)
			return
		}
		if session.Authenticated == nil {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&meta.ErrAuthentication{
					Reason: "Supplied token has not been authenticated. Please log " +
						"in again.",
				},
			)
			return
		}
		if session.Expires != nil && time.Now().After(*session.Expires) {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&meta.ErrAuthentication{
					Reason: "Supplied token has expired. Please log in again.",
				},
			)
			return
		}
		user, err := t.findUser(r.Context(), session.UserID)
		if err != nil {
			log.Println(err)
			// There should never be an authenticated session for a user that
			// doesn't exist.
			t.writeResponse(
				w,
				http.StatusInternalServerError,
				&meta.ErrInternalServer{},
			)
			return
		}
		if user.Deactivated != nil {
			t.writeResponse(
				w,
				http.StatusForbidden,
				&meta.ErrAuthorization{},
			)
			return
		}

		// Success! Add the user and the session ID to the context.
		ctx := authx.ContextWithPrincipal(r.Context(), &user)
		ctx = authx.ContextWithSessionID(ctx, session.ID)
		handle(w, r.WithContext(ctx))
	}
}

func (t *tokenAuthFilter) writeResponse(
	w http.ResponseWriter,
	statusCode int,
	response interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, ok := response.([]byte)
	if !ok {
		var err error
		if responseBody, err = json.Marshal(response); err != nil {
			log.Println(errors.Wrap(err, "error marshaling response body"))
		}
	}
	if _, err := w.Write(responseBody); err != nil {
		log.Println(errors.Wrap(err, "error writing response body"))
	}
}
