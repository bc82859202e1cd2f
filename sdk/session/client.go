package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/api"
)

// TokenAccessor extends TokenStore with the read and write operations the
// API-backed AuthAPI adapter needs. The Manager itself only ever uses the
// narrower TokenStore interface.
type TokenAccessor interface {
	TokenStore
	// Get returns the persisted token, or the empty string if there is none.
	Get() string
	// Put persists a token, replacing any existing one.
	Put(token string) error
}

// clientAuthAPI is an API-backed implementation of the AuthAPI interface
// built on the Postwright SDK.
type clientAuthAPI struct {
	apiAddress    string
	tokens        TokenAccessor
	allowInsecure bool
}

// NewClientAuthAPI returns an API-backed implementation of the AuthAPI
// interface that persists issued tokens into the provided TokenAccessor.
func NewClientAuthAPI(
	apiAddress string,
	tokens TokenAccessor,
	allowInsecure bool,
) AuthAPI {
	return &clientAuthAPI{
		apiAddress:    apiAddress,
		tokens:        tokens,
		allowInsecure: allowInsecure,
	}
}

func (c *clientAuthAPI) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (api.User, error) {
	client := api.NewClient(c.apiAddress, "", c.allowInsecure)
	authDetails, err := client.Sessions().Create(ctx, email, password)
	if err != nil {
		return api.User{}, err
	}
	if err := c.tokens.Put(authDetails.Token); err != nil {
		return api.User{}, errors.Wrap(err, "error persisting session token")
	}
	return authDetails.User, nil
}

func (c *clientAuthAPI) RegisterAccount(
	ctx context.Context,
	registration api.UserRegistration,
) (api.User, error) {
	client := api.NewClient(c.apiAddress, "", c.allowInsecure)
	authDetails, err := client.Users().Register(ctx, registration)
	if err != nil {
		return api.User{}, err
	}
	if err := c.tokens.Put(authDetails.Token); err != nil {
		return api.User{}, errors.Wrap(err, "error persisting session token")
	}
	return authDetails.User, nil
}

func (c *clientAuthAPI) FetchCurrentIdentity(
	ctx context.Context,
) (api.User, error) {
	client := api.NewClient(c.apiAddress, c.tokens.Get(), c.allowInsecure)
	return client.Users().GetCurrent(ctx)
}
