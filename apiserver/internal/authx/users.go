package authx

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/lib/crypto"
	"github.com/postwright/postwright/sdk/meta"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account holder.
type User struct {
	meta.TypeMeta   `json:",inline" bson:",inline"`
	meta.ObjectMeta `json:"metadata" bson:",inline"`
	// Email is the address the user registered and logs in with. It is unique
	// across all users.
	Email string `json:"email" bson:"email"`
	// Name is the user's display name.
	Name string `json:"name" bson:"name"`
	// Username is an optional handle shown alongside generated content.
	Username string `json:"username,omitempty" bson:"username"`
	// Bio is an optional free-form self description.
	Bio string `json:"bio,omitempty" bson:"bio"`
	// Verified indicates whether the user's email address has been confirmed.
	Verified bool `json:"verified" bson:"verified"`
	// HashedPassword is never transmitted to clients.
	HashedPassword string `json:"-" bson:"hashedPassword"`
	// Deactivated indicates, by its absence or presence, whether the account
	// has been deactivated. A deactivated user cannot log in.
	Deactivated *time.Time `json:"deactivated,omitempty" bson:"deactivated"`
	// LastLogin tracks the most recent session creation.
	LastLogin *time.Time `json:"lastLogin,omitempty" bson:"lastLogin"`
}

// MarshalJSON amends User instances with type metadata.
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "User",
			},
			Alias: (Alias)(u),
		},
	)
}

// UserRegistration encapsulates the details required to create a new User.
type UserRegistration struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Password string `json:"password"`
}

// UserProfileUpdate encapsulates the mutable, non-credential fields of a
// User's profile.
type UserProfileUpdate struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// PasswordChange encapsulates a request to replace a User's password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UsersService is the specialized interface for managing Users. It's
// decoupled from underlying technology choices (e.g. data store) to keep
// business logic reusable and consistent while the underlying tech stack
// remains free to change.
type UsersService interface {
	// Register creates a new User from the provided registration details. A
	// successful registration also establishes a Session, so the returned
	// UserSessionAuthDetails carry a usable token. If a User with the same
	// email already exists, implementations MUST return a *meta.ErrConflict
	// error.
	Register(
		ctx context.Context,
		registration UserRegistration,
	) (UserSessionAuthDetails, error)
	// Get retrieves a single User specified by their identifier.
	Get(ctx context.Context, id string) (User, error)
	// UpdateProfile updates the mutable fields of the specified User's profile
	// and returns the updated User.
	UpdateProfile(
		ctx context.Context,
		id string,
		update UserProfileUpdate,
	) (User, error)
	// ChangePassword replaces the specified User's password. If the supplied
	// current password is incorrect, implementations MUST return a
	// *meta.ErrAuthentication error.
	ChangePassword(ctx context.Context, id string, change PasswordChange) error
	// Deactivate marks the specified User's account as deactivated and revokes
	// all of their Sessions.
	Deactivate(ctx context.Context, id string) error
}

type usersService struct {
	usersStore    UsersStore
	sessionsStore SessionsStore
}

// NewUsersService returns a specialized interface for managing Users.
func NewUsersService(
	usersStore UsersStore,
	sessionsStore SessionsStore,
) UsersService {
	return &usersService{
		usersStore:    usersStore,
		sessionsStore: sessionsStore,
	}
}

func (u *usersService) Register(
	ctx context.Context,
	registration UserRegistration,
) (UserSessionAuthDetails, error) {
	authDetails := UserSessionAuthDetails{}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(registration.Password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return authDetails, errors.Wrap(err, "error hashing password")
	}

	now := time.Now()
	user := User{
		ObjectMeta: meta.ObjectMeta{
			ID:      uuid.NewV4().String(),
			Created: &now,
		},
		Email:          strings.ToLower(registration.Email),
		Name:           registration.Name,
		Username:       registration.Username,
		Bio:            registration.Bio,
		HashedPassword: string(hashedPassword),
	}
	if err = u.usersStore.Create(ctx, user); err != nil {
		return authDetails, errors.Wrapf(err, "error storing new user %q", user.ID)
	}

	// A successful registration doubles as a login
	authDetails.Token = crypto.NewToken(256)
	session := NewSession(user.ID, authDetails.Token)
	if err = u.sessionsStore.Create(ctx, session); err != nil {
		return authDetails, errors.Wrapf(
			err,
			"error storing new session %q",
			session.ID,
		)
	}
	authDetails.User = user

	return authDetails, nil
}

func (u *usersService) Get(ctx context.Context, id string) (User, error) {
	user, err := u.usersStore.Get(ctx, id)
	if err != nil {
		return user, errors.Wrapf(err, "error retrieving user %q from store", id)
	}
	return user, nil
}

func (u *usersService) UpdateProfile(
	ctx context.Context,
	id string,
	update UserProfileUpdate,
) (User, error) {
	if err := u.usersStore.UpdateProfile(ctx, id, update); err != nil {
		return User{}, errors.Wrapf(err, "error updating user %q in store", id)
	}
	user, err := u.usersStore.Get(ctx, id)
	if err != nil {
		return user, errors.Wrapf(err, "error retrieving user %q from store", id)
	}
	return user, nil
}

func (u *usersService) ChangePassword(
	ctx context.Context,
	id string,
	change PasswordChange,
) error {
	user, err := u.usersStore.Get(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "error retrieving user %q from store", id)
	}
	if err = bcrypt.CompareHashAndPassword(
		[]byte(user.HashedPassword),
		[]byte(change.CurrentPassword),
	); err != nil {
		return &meta.ErrAuthentication{
			Reason: "The supplied current password is incorrect.",
		}
	}
	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(change.NewPassword),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return errors.Wrap(err, "error hashing password")
	}
	if err = u.usersStore.SetHashedPassword(
		ctx,
		id,
		string(hashedPassword),
	); err != nil {
		return errors.Wrapf(err, "error updating password for user %q", id)
	}
	return nil
}

func (u *usersService) Deactivate(ctx context.Context, id string) error {
	if err := u.usersStore.Deactivate(ctx, id); err != nil {
		return errors.Wrapf(err, "error deactivating user %q in store", id)
	}
	if err := u.sessionsStore.DeleteByUserID(ctx, id); err != nil {
		return errors.Wrapf(err, "error deleting sessions for user %q", id)
	}
	return nil
}

// UsersStore is an interface for User persistence operations.
type UsersStore interface {
	// Create stores the provided User. Implementations MUST return a
	// *meta.ErrConflict error if a User with the same email already exists.
	Create(context.Context, User) error
	// Get retrieves a single User by ID. Implementations MUST return a
	// *meta.ErrNotFound error if no such User exists.
	Get(ctx context.Context, id string) (User, error)
	// GetByEmail retrieves a single User by email address. Implementations
	// MUST return a *meta.ErrNotFound error if no such User exists.
	GetByEmail(ctx context.Context, email string) (User, error)
	// UpdateProfile updates the mutable profile fields of the specified User.
	UpdateProfile(ctx context.Context, id string, update UserProfileUpdate) error
	// SetHashedPassword replaces the specified User's hashed password.
	SetHashedPassword(ctx context.Context, id, hashedPassword string) error
	// SetLastLogin records the time of the specified User's latest login.
	SetLastLogin(ctx context.Context, id string, lastLogin time.Time) error
	// Deactivate marks the specified User's account as deactivated.
	Deactivate(ctx context.Context, id string) error
}
