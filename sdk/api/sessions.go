package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"

	"github.com/postwright/postwright/sdk/internal/restmachinery"
	"github.com/postwright/postwright/sdk/meta"
)

// Token represents an opaque bearer token used to authenticate requests to
// the API.
type Token struct {
	Value string `json:"value,omitempty"`
}

// MarshalJSON amends Token instances with type metadata so that clients do
// not need to be concerned with the tedium of doing so.
func (t Token) MarshalJSON() ([]byte, error) {
	type Alias Token
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "Token",
			},
			Alias: (Alias)(t),
		},
	)
}

// UserSessionAuthDetails encapsulates everything a client needs after
// successfully establishing a session: the opaque bearer token and the
// identity it belongs to.
type UserSessionAuthDetails struct {
	// Token is an opaque bearer token issued by Postwright to correlate a User
	// with a Session. Clients may expect that the token expires (at an interval
	// determined by a system administrator) and, for simplicity, is NOT
	// refreshable. When the token has expired, re-authentication is required.
	Token string `json:"token,omitempty"`
	// User is the identity the session was established for.
	User User `json:"user,omitempty"`
}

// MarshalJSON amends UserSessionAuthDetails instances with type metadata so
// that clients do not need to be concerned with the tedium of doing so.
func (u UserSessionAuthDetails) MarshalJSON() ([]byte, error) {
	type Alias UserSessionAuthDetails
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "UserSessionAuthDetails",
			},
			Alias: (Alias)(u),
		},
	)
}

// SessionsClient is the specialized client for managing Postwright API
// Sessions.
type SessionsClient interface {
	// Create establishes a new session using the provided email address and
	// password.
	Create(
		ctx context.Context,
		email string,
		password string,
	) (UserSessionAuthDetails, error)
	// Delete deletes the session the client's token belongs to.
	Delete(context.Context) error
}

type sessionsClient struct {
	*restmachinery.BaseClient
}

// NewSessionsClient returns a specialized client for managing Postwright API
// Sessions.
func NewSessionsClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) SessionsClient {
	return &sessionsClient{
		BaseClient: &restmachinery.BaseClient{
			APIAddress: apiAddress,
			APIToken:   apiToken,
			HTTPClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure,
					},
				},
			},
		},
	}
}

func (s *sessionsClient) Create(
	ctx context.Context,
	email string,
	password string,
) (UserSessionAuthDetails, error) {
	authDetails := UserSessionAuthDetails{}
	return authDetails, s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/sessions",
			AuthHeaders: s.BasicAuthHeaders(email, password),
			SuccessCode: http.StatusCreated,
			RespObj:     &authDetails,
		},
	)
}

func (s *sessionsClient) Delete(ctx context.Context) error {
	return s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodDelete,
			Path:        "v2/session",
			AuthHeaders: s.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
		},
	)
}
