package content

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/meta"
	"github.com/stretchr/testify/require"
)

type fakePersonasStore struct {
	createFn     func(context.Context, Persona) error
	countFn      func(ctx context.Context, userID string) (int64, error)
	listFn       func(context.Context, string, meta.ListOptions) (PersonaList, error) // nolint: lll
	getFn        func(ctx context.Context, userID, id string) (Persona, error)
	getDefaultFn func(ctx context.Context, userID string) (Persona, error)
	updateFn     func(ctx context.Context, userID, id string, persona Persona) error // nolint: lll
	deleteFn     func(ctx context.Context, userID, id string) error
	setDefaultFn func(ctx context.Context, userID, id string) error
}

func (f *fakePersonasStore) Create(ctx context.Context, persona Persona) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, persona)
}

func (f *fakePersonasStore) Count(
	ctx context.Context,
	userID string,
) (int64, error) {
	if f.countFn == nil {
		return 0, nil
	}
	return f.countFn(ctx, userID)
}

func (f *fakePersonasStore) List(
	ctx context.Context,
	userID string,
	opts meta.ListOptions,
) (PersonaList, error) {
	return f.listFn(ctx, userID, opts)
}

func (f *fakePersonasStore) Get(
	ctx context.Context,
	userID string,
	id string,
) (Persona, error) {
	return f.getFn(ctx, userID, id)
}

func (f *fakePersonasStore) GetDefault(
	ctx context.Context,
	userID string,
) (Persona, error) {
	return f.getDefaultFn(ctx, userID)
}

func (f *fakePersonasStore) Update(
	ctx context.Context,
	userID string,
	id string,
	persona Persona,
) error {
	return f.updateFn(ctx, userID, id, persona)
}

func (f *fakePersonasStore) Delete(
	ctx context.Context,
	userID string,
	id string,
) error {
	return f.deleteFn(ctx, userID, id)
}

func (f *fakePersonasStore) SetDefault(
	ctx context.Context,
	userID string,
	id string,
) error {
	if f.setDefaultFn == nil {
		return nil
	}
	return f.setDefaultFn(ctx, userID, id)
}

func TestPersonasServiceCreate(t *testing.T) {
	testCases := []struct {
		name       string
		service    PersonasService
		persona    Persona
		assertions func(t *testing.T, persona Persona, err error)
	}{
		{
			name: "first persona becomes the default",
			service: NewPersonasService(
				&fakePersonasStore{
					countFn: func(context.Context, string) (int64, error) {
						return 0, nil
					},
				},
			),
			persona: Persona{
				Name: "Travel Brand",
			},
			assertions: func(t *testing.T, persona Persona, err error) {
				require.NoError(t, err)
				require.True(t, persona.Default)
				require.NotEmpty(t, persona.ID)
				require.NotNil(t, persona.Created)
			},
		},
		{
			name: "subsequent persona is not the default",
			service: NewPersonasService(
				&fakePersonasStore{
					countFn: func(context.Context, string) (int64, error) {
						return 3, nil
					},
				},
			),
			persona: Persona{
				Name: "Side Project",
			},
			assertions: func(t *testing.T, persona Persona, err error) {
				require.NoError(t, err)
				require.False(t, persona.Default)
			},
		},
		{
			name: "name already in use",
			service: NewPersonasService(
				&fakePersonasStore{
					countFn: func(context.Context, string) (int64, error) {
						return 1, nil
					},
					createFn: func(context.Context, Persona) error {
						return &meta.ErrConflict{
							Type: "Persona",
						}
					},
				},
			),
			persona: Persona{
				Name: "Travel Brand",
			},
			assertions: func(t *testing.T, _ Persona, err error) {
				require.Error(t, err)
				require.IsType(t, &meta.ErrConflict{}, errors.Cause(err))
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			persona, err := testCase.service.Create(
				context.Background(),
				"tony@example.com",
				testCase.persona,
			)
			testCase.assertions(t, persona, err)
		})
	}
}

func TestPersonasServiceCreateStampsOwner(t *testing.T) {
	var storedPersona Persona
	service := NewPersonasService(
		&fakePersonasStore{
			createFn: func(_ context.Context, persona Persona) error {
				storedPersona = persona
				return nil
			},
		},
	)
	_, err := service.Create(
		context.Background(),
		"tony@example.com",
		Persona{Name: "Travel Brand"},
	)
	require.NoError(t, err)
	require.Equal(t, "tony@example.com", storedPersona.UserID)
}

func TestPersonasServiceListAppliesDefaultLimit(t *testing.T) {
	service := NewPersonasService(
		&fakePersonasStore{
			listFn: func(
				_ context.Context,
				_ string,
				opts meta.ListOptions,
			) (PersonaList, error) {
				require.Equal(t, int64(20), opts.Limit)
				return PersonaList{}, nil
			},
		},
	)
	_, err := service.List(
		context.Background(),
		"tony@example.com",
		meta.ListOptions{},
	)
	require.NoError(t, err)
}

func TestPersonasServiceSetDefault(t *testing.T) {
	testCases := []struct {
		name       string
		service    PersonasService
		assertions func(t *testing.T, err error)
	}{
		{
			name: "persona not found",
			service: NewPersonasService(
				&fakePersonasStore{
					getFn: func(context.Context, string, string) (Persona, error) {
						return Persona{}, &meta.ErrNotFound{
							Type: "Persona",
						}
					},
					setDefaultFn: func(context.Context, string, string) error {
						require.Fail(
							t,
							"default flag changed for a persona that was never verified",
						)
						return nil
					},
				},
			),
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.IsType(t, &meta.ErrNotFound{}, errors.Cause(err))
			},
		},
		{
			name: "success",
			service: NewPersonasService(
				&fakePersonasStore{
					getFn: func(context.Context, string, string) (Persona, error) {
						return Persona{}, nil
					},
				},
			),
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.service.SetDefault(
				context.Background(),
				"tony@example.com",
				"persona-id",
			)
			testCase.assertions(t, err)
		})
	}
}

func TestPersonasServiceDuplicate(t *testing.T) {
	original := Persona{
		ObjectMeta: meta.ObjectMeta{
			ID: "original-id",
		},
		UserID:  "tony@example.com",
		Name:    "Travel Brand",
		Default: true,
	}
	testCases := []struct {
		name       string
		newName    string
		assertions func(t *testing.T, persona Persona, err error)
	}{
		{
			name:    "name defaults to a copy suffix",
			newName: "",
			assertions: func(t *testing.T, persona Persona, err error) {
				require.NoError(t, err)
				require.Equal(t, "Travel Brand (copy)", persona.Name)
			},
		},
		{
			name:    "explicit name is honored",
			newName: "Food Brand",
			assertions: func(t *testing.T, persona Persona, err error) {
				require.NoError(t, err)
				require.Equal(t, "Food Brand", persona.Name)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewPersonasService(
				&fakePersonasStore{
					getFn: func(context.Context, string, string) (Persona, error) {
						return original, nil
					},
				},
			)
			persona, err := service.Duplicate(
				context.Background(),
				"tony@example.com",
				"original-id",
				testCase.newName,
			)
			testCase.assertions(t, persona, err)
			require.NotEqual(t, original.ID, persona.ID)
			require.False(t, persona.Default)
		})
	}
}
