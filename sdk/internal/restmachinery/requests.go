package restmachinery

// OutboundRequest models of an outbound API call from the client's
// perspective.
type OutboundRequest struct {
	// Method is the HTTP method for the request.
	Method string
	// Path is the path component of the URL for the request, relative to the
	// API server's address.
	Path string
	// QueryParams encapsulates optional URL query parameters.
	QueryParams map[string]string
	// AuthHeaders encapsulates authentication-related HTTP headers.
	AuthHeaders map[string]string
	// Headers encapsulates other HTTP headers.
	Headers map[string]string
	// ReqBodyObj is the outbound request body, which will be marshaled to JSON
	// unless it is already a raw []byte.
	ReqBodyObj interface{}
	// SuccessCode is the HTTP status code that indicates success for this
	// particular request.
	SuccessCode int
	// RespObj, if non-nil, is the object into which a successful response body
	// should be unmarshaled.
	RespObj interface{}
}
