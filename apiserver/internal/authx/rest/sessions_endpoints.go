package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/apiserver/internal/lib/restmachinery"
	"github.com/postwright/postwright/sdk/meta"
)

type sessionsEndpoints struct {
	*restmachinery.BaseEndpoints
	service authx.SessionsService
}

// NewSessionsEndpoints returns the collection of HTTP API endpoints related
// to Sessions.
func NewSessionsEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service authx.SessionsService,
) restmachinery.Endpoints {
	return &sessionsEndpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (s *sessionsEndpoints) Register(router *mux.Router) {
	// Create session (log in)
	router.HandleFunc(
		"/v2/sessions",
		s.create, // No filters applied to this request
	).Methods(http.MethodPost)

	// Delete session (log out)
	router.HandleFunc(
		"/v2/session",
		s.TokenAuthFilter.Decorate(s.delete),
	).Methods(http.MethodDelete)
}

func (s *sessionsEndpoints) create(w http.ResponseWriter, r *http.Request) {
	s.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				email, password, ok := r.BasicAuth()
				if !ok {
					return nil, &meta.ErrBadRequest{
						Reason: "The request to create a new session did not include a " +
							"valid basic auth header.",
					}
				}
				return s.service.Create(r.Context(), email, password)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (s *sessionsEndpoints) delete(w http.ResponseWriter, r *http.Request) {
	s.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				sessionID := authx.SessionIDFromContext(r.Context())
				if sessionID == "" {
					return nil, errors.New(
						"error: delete session request authenticated, but no session ID " +
							"found in request context",
					)
				}
				return nil, s.service.Delete(r.Context(), sessionID)
			},
			SuccessCode: http.StatusOK,
		},
	)
}
