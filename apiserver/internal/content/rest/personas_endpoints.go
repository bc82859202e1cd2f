package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/apiserver/internal/content"
	"github.com/postwright/postwright/apiserver/internal/lib/restmachinery"
	"github.com/postwright/postwright/sdk/meta"
	"github.com/xeipuuv/gojsonschema"
)

var (
	personaSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "Persona",
			"type": "object",
			"required": ["name"],
			"properties": {
				"apiVersion": {
					"type": "string"
				},
				"kind": {
					"type": "string"
				},
				"metadata": {
					"type": "object"
				},
				"name": {
					"type": "string",
					"minLength": 1,
					"maxLength": 100
				},
				"description": {
					"type": "string",
					"maxLength": 1000
				},
				"brandVoice": {
					"type": "object",
					"additionalProperties": false,
					"properties": {
						"traits": {
							"type": "array",
							"items": { "type": "string", "maxLength": 50 }
						},
						"tone": {
							"type": "string",
							"enum": ["formal", "informal", "neutral"]
						},
						"languageStyle": {
							"type": "string",
							"enum": ["technical", "simple", "elaborate"]
						},
						"emojiUsage": {
							"type": "string",
							"enum": ["never", "sparing", "moderate", "heavy"]
						}
					}
				},
				"targetAudience": {
					"type": "object",
					"additionalProperties": false,
					"properties": {
						"ageRange": { "type": "string", "maxLength": 20 },
						"location": { "type": "string", "maxLength": 100 },
						"interests": {
							"type": "array",
							"items": { "type": "string", "maxLength": 50 }
						}
					}
				},
				"guidelines": {
					"type": "object",
					"additionalProperties": false,
					"properties": {
						"topics": {
							"type": "array",
							"items": { "type": "string", "maxLength": 100 }
						},
						"avoidTopics": {
							"type": "array",
							"items": { "type": "string", "maxLength": 100 }
						},
						"hashtags": {
							"type": "array",
							"items": { "type": "string", "maxLength": 100 }
						},
						"callToActions": {
							"type": "array",
							"items": { "type": "string", "maxLength": 200 }
						}
					}
				},
				"instagram": {
					"type": "object",
					"additionalProperties": false,
					"properties": {
						"captionLength": {
							"type": "string",
							"enum": ["short", "medium", "long"]
						},
						"hashtagStrategy": {
							"type": "string",
							"enum": ["popular", "niche", "mix"]
						},
						"postTypes": {
							"type": "array",
							"items": { "type": "string", "maxLength": 20 }
						}
					}
				},
				"default": {
					"type": "boolean"
				}
			}
		}`,
	)

	personaDuplicateSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "PersonaDuplicate",
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 100
				}
			}
		}`,
	)
)

type personasEndpoints struct {
	*restmachinery.BaseEndpoints
	service content.PersonasService
}

// NewPersonasEndpoints returns the collection of HTTP API endpoints related
// to Personas.
func NewPersonasEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service content.PersonasService,
) restmachinery.Endpoints {
	return &personasEndpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (p *personasEndpoints) Register(router *mux.Router) {
	// Create persona
	router.HandleFunc(
		"/v2/personas",
		p.TokenAuthFilter.Decorate(p.create),
	).Methods(http.MethodPost)

	// List personas
	router.HandleFunc(
		"/v2/personas",
		p.TokenAuthFilter.Decorate(p.list),
	).Methods(http.MethodGet)

	// Get persona
	router.HandleFunc(
		"/v2/personas/{id}",
		p.TokenAuthFilter.Decorate(p.get),
	).Methods(http.MethodGet)

	// Update persona
	router.HandleFunc(
		"/v2/personas/{id}",
		p.TokenAuthFilter.Decorate(p.update),
	).Methods(http.MethodPut)

	// Delete persona
	router.HandleFunc(
		"/v2/personas/{id}",
		p.TokenAuthFilter.Decorate(p.delete),
	).Methods(http.MethodDelete)

	// Make persona the default
	router.HandleFunc(
		"/v2/personas/{id}/default",
		p.TokenAuthFilter.Decorate(p.setDefault),
	).Methods(http.MethodPut)

	// Duplicate persona
	router.HandleFunc(
		"/v2/personas/{id}/duplicates",
		p.TokenAuthFilter.Decorate(p.duplicate),
	).Methods(http.MethodPost)
}

func (p *personasEndpoints) create(w http.ResponseWriter, r *http.Request) {
	persona := content.Persona{}
	p.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: personaSchemaLoader,
			ReqBodyObj:          &persona,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: create persona request authenticated, but no " +
							"principal found in request context",
					)
				}
				return p.service.Create(r.Context(), principal.ID, persona)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (p *personasEndpoints) list(w http.ResponseWriter, r *http.Request) {
	opts := meta.ListOptions{
		Continue: r.URL.Query().Get("continue"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		if opts.Limit, err = strconv.ParseInt(limitStr, 10, 64); err != nil ||
			opts.Limit < 1 || opts.Limit > 100 {
			p.WriteAPIResponse(
				w,
				http.StatusBadRequest,
				&meta.ErrBadRequest{
					Reason: fmt.Sprintf(
						`Invalid value %q for "limit" query parameter`,
						limitStr,
					),
				},
			)
			return
		}
	}
	p.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: list personas request authenticated, but no " +
							"principal found in request context",
					)
				}
				return p.service.List(r.Context(), principal.ID, opts)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (p *personasEndpoints) get(w http.ResponseWriter, r *http.Request) {
	p.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: get persona request authenticated, but no principal " +
							"found in request context",
					)
				}
				return p.service.Get(r.Context(), principal.ID, mux.Vars(r)["id"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (p *personasEndpoints) update(w http.ResponseWriter, r *http.Request) {
	persona := content.Persona{}
	p.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: personaSchemaLoader,
			ReqBodyObj:          &persona,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: update persona request authenticated, but no " +
							"principal found in request context",
					)
				}
				return p.service.Update(
					r.Context(),
					principal.ID,
					mux.Vars(r)["id"],
					persona,
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (p *personasEndpoints) delete(w http.ResponseWriter, r *http.Request) {
	p.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: delete persona request authenticated, but no " +
							"principal found in request context",
					)
				}
				return nil,
					p.service.Delete(r.Context(), principal.ID, mux.Vars(r)["id"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (p *personasEndpoints) setDefault(w http.ResponseWriter, r *http.Request) {
	p.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: set default persona request authenticated, but no " +
							"principal found in request context",
					)
				}
				return nil,
					p.service.SetDefault(r.Context(), principal.ID, mux.Vars(r)["id"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (p *personasEndpoints) duplicate(w http.ResponseWriter, r *http.Request) {
	reqBody := struct {
		Name string `json:"name"`
	}{}
	p.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: personaDuplicateSchemaLoader,
			ReqBodyObj:          &reqBody,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: duplicate persona request authenticated, but no " +
							"principal found in request context",
					)
				}
				return p.service.Duplicate(
					r.Context(),
					principal.ID,
					mux.Vars(r)["id"],
					reqBody.Name,
				)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}
