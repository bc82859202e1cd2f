package authx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/lib/crypto"
	"github.com/postwright/postwright/sdk/meta"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

// sessionTTL governs how long an issued token remains valid. Tokens are NOT
// refreshable; when one expires, re-authentication is required.
const sessionTTL = 30 * 24 * time.Hour

// UserSessionAuthDetails encapsulates everything a client receives upon
// successful authentication: the opaque bearer token to present on subsequent
// requests and the identity the token belongs to.
type UserSessionAuthDetails struct {
	// Token is an opaque bearer token issued to correlate a User with a
	// Session. Clients may expect that the token expires (at an interval
	// determined by a system administrator) and, for simplicity, is NOT
	// refreshable.
	Token string `json:"token"`
	// User is the identity the Session was established for.
	User User `json:"user"`
}

// MarshalJSON amends UserSessionAuthDetails instances with type metadata.
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

// Session represents an established login. Only a hash of the bearer token is
// ever stored.
type Session struct {
	meta.TypeMeta   `json:",inline" bson:",inline"`
	meta.ObjectMeta `json:"metadata" bson:",inline"`
	UserID          string     `json:"userID" bson:"userID"`
	HashedToken     string     `json:"-" bson:"hashedToken"`
	Authenticated   *time.Time `json:"authenticated" bson:"authenticated"`
	Expires         *time.Time `json:"expires" bson:"expires"`
}

// NewSession returns a Session for the specified User, pre-authenticated and
// with an expiry period already applied.
func NewSession(userID, token string) Session {
	now := time.Now()
	expiryTime := now.Add(sessionTTL)
	return Session{
		TypeMeta: meta.TypeMeta{
			APIVersion: meta.APIVersion,
			Kind:       "Session",
		},
		ObjectMeta: meta.ObjectMeta{
			ID:      uuid.NewV4().String(),
			Created: &now,
		},
		UserID:        userID,
		HashedToken:   crypto.ShortSHA("", token),
		Authenticated: &now,
		Expires:       &expiryTime,
	}
}

type sessionIDContextKey struct{}

// ContextWithSessionID returns a context.Context that has been augmented with
// the provided Session identifier.
func ContextWithSessionID(
	ctx context.Context,
	sessionID string,
) context.Context {
	return context.WithValue(ctx, sessionIDContextKey{}, sessionID)
}

// SessionIDFromContext extracts a Session identifier from the provided
// context.Context and returns it.
func SessionIDFromContext(ctx context.Context) string {
	sessionID := ctx.Value(sessionIDContextKey{})
	if sessionID == nil {
		return ""
	}
	return sessionID.(string)
}

// SessionsService is the specialized interface for managing Sessions. It's
// decoupled from underlying technology choices (e.g. data store) to keep
// business logic reusable and consistent while the underlying tech stack
// remains free to change.
type SessionsService interface {
	// Create authenticates the provided credentials and, if they are valid,
	// establishes a new Session. If the email is unknown, the password is
	// incorrect, or the account has been deactivated, implementations MUST
	// return a *meta.ErrAuthentication error that does not disclose which of
	// those was the case.
	Create(
		ctx context.Context,
		email string,
		password string,
	) (UserSessionAuthDetails, error)
	// GetByToken retrieves the Session having the provided token. If no such
	// Session is found, implementations MUST return a *meta.ErrNotFound error.
	GetByToken(ctx context.Context, token string) (Session, error)
	// Delete deletes the specified Session.
	Delete(ctx context.Context, id string) error
}

type sessionsService struct {
	sessionsStore SessionsStore
	usersStore    UsersStore
}

// NewSessionsService returns a specialized interface for managing Sessions.
func NewSessionsService(
	sessionsStore SessionsStore,
	usersStore UsersStore,
) SessionsService {
	return &sessionsService{
		sessionsStore: sessionsStore,
		usersStore:    usersStore,
	}
}

func (s *sessionsService) Create(
	ctx context.Context,
	email string,
	password string,
) (UserSessionAuthDetails, error) {
	authDetails := UserSessionAuthDetails{}

	user, err := s.usersStore.GetByEmail(ctx, email)
	if err != nil {
		if _, ok := errors.Cause(err).(*meta.ErrNotFound); ok {
			// Deliberately indistinguishable from a wrong password
			return authDetails, &meta.ErrAuthentication{
				Reason: "Could not authenticate the request using the supplied " +
					"credentials.",
			}
		}
		return authDetails, errors.Wrapf(
			err,
			"error retrieving user from store by email",
		)
	}
	if user.Deactivated != nil {
		return authDetails, &meta.ErrAuthentication{
			Reason: "Could not authenticate the request using the supplied " +
				"credentials.",
		}
	}
	if err = bcrypt.CompareHashAndPassword(
		[]byte(user.HashedPassword),
		[]byte(password),
	); err != nil {
		return authDetails, &meta.ErrAuthentication{
			Reason: "Could not authenticate the request using the supplied " +
				"credentials.",
		}
	}

	authDetails.Token = crypto.NewToken(256)
	session := NewSession(user.ID, authDetails.Token)
	if err = s.sessionsStore.Create(ctx, session); err != nil {
		return authDetails, errors.Wrapf(
			err,
			"error storing new session %q",
			session.ID,
		)
	}

	// Best effort; a failure to record the login time shouldn't fail the login
	now := time.Now()
	if err = s.usersStore.SetLastLogin(ctx, user.ID, now); err == nil {
		user.LastLogin = &now
	}
	authDetails.User = user

	return authDetails, nil
}

func (s *sessionsService) GetByToken(
	ctx context.Context,
	token string,
) (Session, error) {
	session, err := s.sessionsStore.GetByHashedToken(
		ctx,
		crypto.ShortSHA("", token),
	)
	if err != nil {
		return session, errors.Wrap(
			err,
			"error retrieving session from store by hashed token",
		)
	}
	return session, nil
}

func (s *sessionsService) Delete(ctx context.Context, id string) error {
	if err := s.sessionsStore.Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "error removing session %q from store", id)
	}
	return nil
}

// SessionsStore is an interface for Session persistence operations.
type SessionsStore interface {
	// Create stores the provided Session.
	Create(context.Context, Session) error
	// GetByHashedToken retrieves the Session having the provided hashed token.
	// Implementations MUST return a *meta.ErrNotFound error if no such Session
	// exists.
	GetByHashedToken(context.Context, string) (Session, error)
	// Delete deletes the specified Session.
	Delete(context.Context, string) error
	// DeleteByUserID deletes all of the specified User's Sessions.
	DeleteByUserID(ctx context.Context, userID string) error
}
