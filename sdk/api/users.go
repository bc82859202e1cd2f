package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"time"

	"github.com/postwright/postwright/sdk/internal/restmachinery"
	"github.com/postwright/postwright/sdk/meta"
)

// User represents a (human) Postwright user-- a content creator, brand, or
// agency that uses the system to generate content for their social channels.
type User struct {
	meta.TypeMeta   `json:",inline"`
	meta.ObjectMeta `json:"metadata"`
	// Email is the user's email address and doubles as their login name.
	Email string `json:"email,omitempty"`
	// Name is the user's full name.
	Name string `json:"name,omitempty"`
	// Username is an optional public handle.
	Username string `json:"username,omitempty"`
	// Bio is an optional short self-description.
	Bio string `json:"bio,omitempty"`
	// Verified indicates whether the user's email address has been verified.
	Verified bool `json:"verified"`
	// Deactivated, if non-nil, indicates when the account was deactivated.
	Deactivated *time.Time `json:"deactivated,omitempty"`
	// LastLogin indicates when the user most recently established a session.
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// DisplayName returns the user's preferred display name.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// UserRegistration encapsulates the details of a request to create a new
// User.
type UserRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// MarshalJSON amends UserRegistration instances with type metadata.
func (u UserRegistration) MarshalJSON() ([]byte, error) {
	type Alias UserRegistration
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "UserRegistration",
			},
			Alias: (Alias)(u),
		},
	)
}

// UserProfileUpdate encapsulates the mutable fields of a User's profile.
type UserProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// PasswordChange encapsulates the details of a request to change the current
// user's password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UsersClient is the specialized client for managing Postwright Users.
type UsersClient interface {
	// Register creates a new User and, on success, establishes a session for
	// them.
	Register(context.Context, UserRegistration) (UserSessionAuthDetails, error)
	// GetCurrent retrieves the User the client's token belongs to.
	GetCurrent(context.Context) (User, error)
	// UpdateCurrent updates the current User's profile.
	UpdateCurrent(context.Context, UserProfileUpdate) (User, error)
	// ChangePassword changes the current User's password.
	ChangePassword(context.Context, PasswordChange) error
	// DeactivateCurrent deactivates the current User's account.
	DeactivateCurrent(context.Context) error
}

type usersClient struct {
	*restmachinery.BaseClient
}

// NewUsersClient returns a specialized client for managing Postwright Users.
func NewUsersClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) UsersClient {
	return &usersClient{
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

func (u *usersClient) Register(
	ctx context.Context,
	registration UserRegistration,
) (UserSessionAuthDetails, error) {
	authDetails := UserSessionAuthDetails{}
	return authDetails, u.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/users",
			ReqBodyObj:  registration,
			SuccessCode: http.StatusCreated,
			RespObj:     &authDetails,
		},
	)
}

func (u *usersClient) GetCurrent(ctx context.Context) (User, error) {
	user := User{}
	return user, u.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v2/users/me",
			AuthHeaders: u.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &user,
		},
	)
}

func (u *usersClient) UpdateCurrent(
	ctx context.Context,
	update UserProfileUpdate,
) (User, error) {
	user := User{}
	return user, u.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPut,
			Path:        "v2/users/me",
			AuthHeaders: u.BearerTokenAuthHeaders(),
			ReqBodyObj:  update,
			SuccessCode: http.StatusOK,
			RespObj:     &user,
		},
	)
}

func (u *usersClient) ChangePassword(
	ctx context.Context,
	change PasswordChange,
) error {
	return u.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPut,
			Path:        "v2/users/me/password",
			AuthHeaders: u.BearerTokenAuthHeaders(),
			ReqBodyObj:  change,
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *usersClient) DeactivateCurrent(ctx context.Context) error {
	return u.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodDelete,
			Path:        "v2/users/me",
			AuthHeaders: u.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
		},
	)
}
