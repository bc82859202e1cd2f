package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/apiserver/internal/lib/restmachinery"
	"github.com/xeipuuv/gojsonschema"
)

var (
	userRegistrationSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "UserRegistration",
			"type": "object",
			"required": ["email", "name", "password"],
			"additionalProperties": false,
			"properties": {
				"apiVersion": {
					"type": "string"
				},
				"kind": {
					"type": "string"
				},
				"email": {
					"type": "string",
					"format": "email",
					"maxLength": 250
				},
				"name": {
					"type": "string",
					"minLength": 1,
					"maxLength": 100
				},
				"username": {
					"type": "string",
					"pattern": "^[a-z0-9_.]*$",
					"maxLength": 30
				},
				"bio": {
					"type": "string",
					"maxLength": 500
				},
				"password": {
					"type": "string",
					"minLength": 8,
					"maxLength": 100
				}
			}
		}`,
	)

	userProfileUpdateSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "UserProfileUpdate",
			"type": "object",
			"required": ["name"],
			"additionalProperties": false,
			"properties": {
				"name": {
					"type": "string",
					"minLength": 1,
					"maxLength": 100
				},
				"username": {
					"type": "string",
					"pattern": "^[a-z0-9_.]*$",
					"maxLength": 30
				},
				"bio": {
					"type": "string",
					"maxLength": 500
				}
			}
		}`,
	)

	passwordChangeSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "PasswordChange",
			"type": "object",
			"required": ["currentPassword", "newPassword"],
			"additionalProperties": false,
			"properties": {
				"currentPassword": {
					"type": "string",
					"minLength": 1,
					"maxLength": 100
				},
				"newPassword": {
					"type": "string",
					"minLength": 8,
					"maxLength": 100
				}
			}
		}`,
	)
)

type usersEndpoints struct {
	*restmachinery.BaseEndpoints
	service authx.UsersService
}

// NewUsersEndpoints returns the collection of HTTP API endpoints related to
// Users.
func NewUsersEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service authx.UsersService,
) restmachinery.Endpoints {
	return &usersEndpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (u *usersEndpoints) Register(router *mux.Router) {
	// Register user
	router.HandleFunc(
		"/v2/users",
		u.create, // No filters applied to this request
	).Methods(http.MethodPost)

	// Get current user
	router.HandleFunc(
		"/v2/users/me",
		u.TokenAuthFilter.Decorate(u.getCurrent),
	).Methods(http.MethodGet)

	// Update current user's profile
	router.HandleFunc(
		"/v2/users/me",
		u.TokenAuthFilter.Decorate(u.updateCurrent),
	).Methods(http.MethodPut)

	// Change current user's password
	router.HandleFunc(
		"/v2/users/me/password",
		u.TokenAuthFilter.Decorate(u.changePassword),
	).Methods(http.MethodPut)

	// Deactivate current user
	router.HandleFunc(
		"/v2/users/me",
		u.TokenAuthFilter.Decorate(u.deactivateCurrent),
	).Methods(http.MethodDelete)
}

func (u *usersEndpoints) create(w http.ResponseWriter, r *http.Request) {
	registration := authx.UserRegistration{}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: userRegistrationSchemaLoader,
			ReqBodyObj:          &registration,
			EndpointLogic: func() (interface{}, error) {
				return u.service.Register(r.Context(), registration)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (u *usersEndpoints) getCurrent(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: get current user request authenticated, but no " +
							"principal found in request context",
					)
				}
				return u.service.Get(r.Context(), principal.ID)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *usersEndpoints) updateCurrent(w http.ResponseWriter, r *http.Request) {
	update := authx.UserProfileUpdate{}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: userProfileUpdateSchemaLoader,
			ReqBodyObj:          &update,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: update profile request authenticated, but no principal " +
							"found in request context",
					)
				}
				return u.service.UpdateProfile(r.Context(), principal.ID, update)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *usersEndpoints) changePassword(
	w http.ResponseWriter,
	r *http.Request,
) {
	change := authx.PasswordChange{}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: passwordChangeSchemaLoader,
			ReqBodyObj:          &change,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: change password request authenticated, but no " +
							"principal found in request context",
					)
				}
				return nil,
					u.service.ChangePassword(r.Context(), principal.ID, change)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *usersEndpoints) deactivateCurrent(
	w http.ResponseWriter,
	r *http.Request,
) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: deactivate request authenticated, but no principal " +
							"found in request context",
					)
				}
				return nil, u.service.Deactivate(r.Context(), principal.ID)
			},
			SuccessCode: http.StatusOK,
		},
	)
}
