package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/apiserver/internal/content"
	"github.com/postwright/postwright/apiserver/internal/lib/restmachinery"
	"github.com/xeipuuv/gojsonschema"
)

var (
	captionRequestSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "CaptionRequest",
			"type": "object",
			"required": ["topic"],
			"additionalProperties": false,
			"properties": {
				"personaID": {
					"type": "string",
					"maxLength": 50
				},
				"topic": {
					"type": "string",
					"minLength": 1,
					"maxLength": 500
				},
				"style": {
					"type": "string",
					"enum": ["engagement", "informative", "storytelling"]
				},
				"includeHashtags": {
					"type": "boolean"
				},
				"additionalContext": {
					"type": "string",
					"maxLength": 2000
				}
			}
		}`,
	)

	hashtagsRequestSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "HashtagsRequest",
			"type": "object",
			"required": ["topic"],
			"additionalProperties": false,
			"properties": {
				"personaID": {
					"type": "string",
					"maxLength": 50
				},
				"topic": {
					"type": "string",
					"minLength": 1,
					"maxLength": 500
				},
				"count": {
					"type": "integer",
					"minimum": 1,
					"maximum": 30
				}
			}
		}`,
	)

	ideasRequestSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "IdeasRequest",
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"personaID": {
					"type": "string",
					"maxLength": 50
				},
				"contentType": {
					"type": "string",
					"enum": ["posts", "stories", "reels"]
				},
				"count": {
					"type": "integer",
					"minimum": 1,
					"maximum": 10
				}
			}
		}`,
	)

	analysisRequestSchemaLoader = gojsonschema.NewStringLoader(`
		{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"title": "AnalysisRequest",
			"type": "object",
			"required": ["content"],
			"additionalProperties": false,
			"properties": {
				"personaID": {
					"type": "string",
					"maxLength": 50
				},
				"content": {
					"type": "string",
					"minLength": 1,
					"maxLength": 5000
				},
				"contentType": {
					"type": "string",
					"maxLength": 50
				},
				"targetMetrics": {
					"type": "array",
					"items": {
						"type": "string",
						"maxLength": 50
					}
				}
			}
		}`,
	)
)

type contentEndpoints struct {
	*restmachinery.BaseEndpoints
	service content.GenerationService
}

// NewContentEndpoints returns the collection of HTTP API endpoints related to
// content generation.
func NewContentEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service content.GenerationService,
) restmachinery.Endpoints {
	return &contentEndpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (c *contentEndpoints) Register(router *mux.Router) {
	// Generate caption
	router.HandleFunc(
		"/v2/captions",
		c.TokenAuthFilter.Decorate(c.generateCaption),
	).Methods(http.MethodPost)

	// Generate hashtags
	router.HandleFunc(
		"/v2/hashtags",
		c.TokenAuthFilter.Decorate(c.generateHashtags),
	).Methods(http.MethodPost)

	// Generate content ideas
	router.HandleFunc(
		"/v2/ideas",
		c.TokenAuthFilter.Decorate(c.generateIdeas),
	).Methods(http.MethodPost)

	// Analyze content
	router.HandleFunc(
		"/v2/analyses",
		c.TokenAuthFilter.Decorate(c.analyzeContent),
	).Methods(http.MethodPost)

	// Get usage counters
	router.HandleFunc(
		"/v2/usage",
		c.TokenAuthFilter.Decorate(c.getUsage),
	).Methods(http.MethodGet)
}

func (c *contentEndpoints) generateCaption(
	w http.ResponseWriter,
	r *http.Request,
) {
	req := content.CaptionRequest{}
	c.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: captionRequestSchemaLoader,
			ReqBodyObj:          &req,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: generate caption request authenticated, but no " +
							"principal found in request context",
					)
				}
				return c.service.GenerateCaption(r.Context(), principal.ID, req)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (c *contentEndpoints) generateHashtags(
	w http.ResponseWriter,
	r *http.Request,
) {
	req := content.HashtagsRequest{}
	c.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: hashtagsRequestSchemaLoader,
			ReqBodyObj:          &req,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: generate hashtags request authenticated, but no " +
							"principal found in request context",
					)
				}
				return c.service.GenerateHashtags(r.Context(), principal.ID, req)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (c *contentEndpoints) generateIdeas(
	w http.ResponseWriter,
	r *http.Request,
) {
	req := content.IdeasRequest{}
	c.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: ideasRequestSchemaLoader,
			ReqBodyObj:          &req,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: generate ideas request authenticated, but no " +
							"principal found in request context",
					)
				}
				return c.service.GenerateIdeas(r.Context(), principal.ID, req)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (c *contentEndpoints) analyzeContent(
	w http.ResponseWriter,
	r *http.Request,
) {
	req := content.AnalysisRequest{}
	c.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: analysisRequestSchemaLoader,
			ReqBodyObj:          &req,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: analyze content request authenticated, but no " +
							"principal found in request context",
					)
				}
				return c.service.AnalyzeContent(r.Context(), principal.ID, req)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (c *contentEndpoints) getUsage(w http.ResponseWriter, r *http.Request) {
	c.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				principal := authx.PrincipalFromContext(r.Context())
				if principal == nil {
					return nil, errors.New(
						"error: get usage request authenticated, but no principal " +
							"found in request context",
					)
				}
				return c.service.GetUsage(r.Context(), principal.ID)
			},
			SuccessCode: http.StatusOK,
		},
	)
}
