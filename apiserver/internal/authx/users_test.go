package authx

import (
	"context"
	"testing"

	"github.com/postwright/postwright/sdk/meta"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUsersServiceRegister(t *testing.T) {
	testRegistration := UserRegistration{
		Email:    "Ana@Example.com",
		Name:     "Ana",
		Username: "ana.codes",
		Password: "s3cr3tpassw0rd",
	}
	testCases := []struct {
		name          string
		usersStore    UsersStore
		sessionsStore SessionsStore
		assertions    func(
			t *testing.T,
			authDetails UserSessionAuthDetails,
			err error,
		)
	}{
		{
			name: "email already in use",
			usersStore: &fakeUsersStore{
				createFn: func(context.Context, User) error {
					return &meta.ErrConflict{
						Type: "User",
						ID:   "ana@example.com",
					}
				},
			},
			sessionsStore: &fakeSessionsStore{},
			assertions: func(
				t *testing.T,
				_ UserSessionAuthDetails,
				err error,
			) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "error storing new user")
			},
		},
		{
			name: "success establishes a session",
			usersStore: &fakeUsersStore{
				createFn: func(_ context.Context, user User) error {
					require.NotEmpty(t, user.ID)
					// Emails are normalized to lower case
					require.Equal(t, "ana@example.com", user.Email)
					// The password is stored hashed, never in the clear
					require.NotEmpty(t, user.HashedPassword)
					require.NoError(
						t,
						bcrypt.CompareHashAndPassword(
							[]byte(user.HashedPassword),
							[]byte(testRegistration.Password),
						),
					)
					return nil
				},
			},
			sessionsStore: &fakeSessionsStore{
				createFn: func(_ context.Context, session Session) error {
					require.NotEmpty(t, session.UserID)
					require.NotEmpty(t, session.HashedToken)
					return nil
				},
			},
			assertions: func(
				t *testing.T,
				authDetails UserSessionAuthDetails,
				err error,
			) {
				require.NoError(t, err)
				require.Len(t, authDetails.Token, 256)
				require.Equal(t, "Ana", authDetails.User.Name)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service :=
				NewUsersService(testCase.usersStore, testCase.sessionsStore)
			authDetails, err :=
				service.Register(context.Background(), testRegistration)
			testCase.assertions(t, authDetails, err)
		})
	}
}

func TestUsersServiceUpdateProfile(t *testing.T) {
	const testUserID = "ana"
	testUpdate := UserProfileUpdate{
		Name:     "Ana Clara",
		Username: "ana.codes",
		Bio:      "Content creator",
	}
	var updateApplied bool
	service := NewUsersService(
		&fakeUsersStore{
			updateProfileFn: func(
				_ context.Context,
				id string,
				update UserProfileUpdate,
			) error {
				require.Equal(t, testUserID, id)
				require.Equal(t, testUpdate, update)
				updateApplied = true
				return nil
			},
			getFn: func(context.Context, string) (User, error) {
				return User{
					ObjectMeta: meta.ObjectMeta{
						ID: testUserID,
					},
					Name:     testUpdate.Name,
					Username: testUpdate.Username,
					Bio:      testUpdate.Bio,
				}, nil
			},
		},
		&fakeSessionsStore{},
	)
	user, err :=
		service.UpdateProfile(context.Background(), testUserID, testUpdate)
	require.NoError(t, err)
	require.True(t, updateApplied)
	require.Equal(t, "Ana Clara", user.Name)
}

func TestUsersServiceChangePassword(t *testing.T) {
	const testUserID = "ana"
	const testCurrentPassword = "0ldpassw0rd"
	testCases := []struct {
		name       string
		change     PasswordChange
		assertions func(t *testing.T, err error)
	}{
		{
			name: "current password incorrect",
			change: PasswordChange{
				CurrentPassword: "wrongpassword",
				NewPassword:     "n3wpassw0rd",
			},
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.IsType(t, &meta.ErrAuthentication{}, err)
			},
		},
		{
			name: "success",
			change: PasswordChange{
				CurrentPassword: testCurrentPassword,
				NewPassword:     "n3wpassw0rd",
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewUsersService(
				&fakeUsersStore{
					getFn: func(context.Context, string) (User, error) {
						return User{
							ObjectMeta: meta.ObjectMeta{
								ID: testUserID,
							},
							HashedPassword: hashedTestPassword(t, testCurrentPassword),
						}, nil
					},
					setHashedPasswordFn: func(
						_ context.Context,
						id string,
						hashedPassword string,
					) error {
						require.Equal(t, testUserID, id)
						require.NoError(
							t,
							bcrypt.CompareHashAndPassword(
								[]byte(hashedPassword),
								[]byte(testCase.change.NewPassword),
							),
						)
						return nil
					},
				},
				&fakeSessionsStore{},
			)
			err := service.ChangePassword(
				context.Background(),
				testUserID,
				testCase.change,
			)
			testCase.assertions(t, err)
		})
	}
}

func TestUsersServiceDeactivate(t *testing.T) {
	const testUserID = "ana"
	var deactivated, sessionsRevoked bool
	service := NewUsersService(
		&fakeUsersStore{
			deactivateFn: func(_ context.Context, id string) error {
				require.Equal(t, testUserID, id)
				deactivated = true
				return nil
			},
		},
		&fakeSessionsStore{
			deleteByUserIDFn: func(_ context.Context, userID string) error {
				require.Equal(t, testUserID, userID)
				sessionsRevoked = true
				return nil
			},
		},
	)
	err := service.Deactivate(context.Background(), testUserID)
	require.NoError(t, err)
	require.True(t, deactivated)
	require.True(t, sessionsRevoked)
}
