package meta

import (
	"encoding/json"
	"fmt"
)

// ErrAuthentication represents an error asserting that a request could not be
// authenticated.
type ErrAuthentication struct {
	// Reason is a natural language explanation for why the request could not be
	// authenticated.
	Reason string `json:"reason,omitempty"`
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("Could not authenticate the request: %s", e.Reason)
}

// MarshalJSON amends ErrAuthentication instances with type metadata.
func (e ErrAuthentication) MarshalJSON() ([]byte, error) {
	type Alias ErrAuthentication
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "AuthenticationError",
			},
			Alias: (Alias)(e),
		},
	)
}

// ErrAuthorization represents an error asserting that an authenticated
// request is not authorized to perform the requested operation.
type ErrAuthorization struct{}

func (e *ErrAuthorization) Error() string {
	return "The request is not authorized."
}

// MarshalJSON amends ErrAuthorization instances with type metadata.
func (e ErrAuthorization) MarshalJSON() ([]byte, error) {
	type Alias ErrAuthorization
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "AuthorizationError",
			},
			Alias: (Alias)(e),
		},
	)
}

// ErrBadRequest represents an error asserting that a request is invalid.
type ErrBadRequest struct {
	// Reason is a natural language explanation for why the request is invalid.
	Reason string `json:"reason,omitempty"`
	// Details may further qualify why a request is invalid. e.g. If the request
	// includes a resource definition that failed schema validation, the specific
	// validation errors may be enumerated here.
	Details []string `json:"details,omitempty"`
}

func (e *ErrBadRequest) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("Bad request: %s", e.Reason)
	}
	msg := fmt.Sprintf("Bad request: %s:", e.Reason)
	for i, detail := range e.Details {
		msg = fmt.Sprintf("%s\n  %d. %s", msg, i, detail)
	}
	return msg
}

// MarshalJSON amends ErrBadRequest instances with type metadata.
func (e ErrBadRequest) MarshalJSON() ([]byte, error) {
	type Alias ErrBadRequest
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "BadRequestError",
			},
			Alias: (Alias)(e),
		},
	)
}

// ErrNotFound represents an error asserting that a requested resource was not
// found.
type ErrNotFound struct {
	// Type identifies the type of the resource that was not found.
	Type string `json:"type,omitempty"`
	// ID identifies the resource that was not found.
	ID string `json:"id,omitempty"`
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found.", e.Type, e.ID)
}

// MarshalJSON amends ErrNotFound instances with type metadata.
func (e ErrNotFound) MarshalJSON() ([]byte, error) {
	type Alias ErrNotFound
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "NotFoundError",
			},
			Alias: (Alias)(e),
		},
	)
}

// ErrConflict represents an error asserting that a request cannot be
// completed because it would violate some constraint, such as the uniqueness
// of an identifier.
type ErrConflict struct {
	// Type identifies the type of the resource involved in the conflict.
	Type string `json:"type,omitempty"`
	// ID identifies the resource involved in the conflict.
	ID string `json:"id,omitempty"`
	// Reason is a natural language explanation of the conflict.
	Reason string `json:"reason,omitempty"`
}

func (e *ErrConflict) Error() string {
	return e.Reason
}

// MarshalJSON amends ErrConflict instances with type metadata.
func (e ErrConflict) MarshalJSON() ([]byte, error) {
	type Alias ErrConflict
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "ConflictError",
			},
			Alias: (Alias)(e),
		},
	)
}

// ErrLimitExceeded represents an error asserting that a request cannot be
// completed because the client has exhausted an allowance, such as a daily
// generation quota.
type ErrLimitExceeded struct {
	// Reason is a natural language explanation of which limit was exceeded.
	Reason string `json:"reason,omitempty"`
}

func (e *ErrLimitExceeded) Error() string {
	return fmt.Sprintf("Limit exceeded: %s", e.Reason)
}

// MarshalJSON amends ErrLimitExceeded instances with type metadata.
func (e ErrLimitExceeded) MarshalJSON() ([]byte, error) {
	type Alias ErrLimitExceeded
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "LimitExceededError",
			},
			Alias: (Alias)(e),
		},
	)
}

// ErrNotSupported represents an error asserting that a request cannot be
// completed because the server does not support it.
type ErrNotSupported struct {
	// Details is a natural language explanation of why the request is not
	// supported.
	Details string `json:"details,omitempty"`
}

func (e *ErrNotSupported) Error() string {
	return fmt.Sprintf("The request is not supported: %s", e.Details)
}

// MarshalJSON amends ErrNotSupported instances with type metadata.
func (e ErrNotSupported) MarshalJSON() ([]byte, error) {
	type Alias ErrNotSupported
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "NotSupportedError",
			},
			Alias: (Alias)(e),
		},
	)
}

// ErrInternalServer represents a condition wherein the server has encountered
// an unexpected error and does not wish to communicate further details of
// that error to the client.
type ErrInternalServer struct{}

func (e *ErrInternalServer) Error() string {
	return "An internal server error occurred."
}

// MarshalJSON amends ErrInternalServer instances with type metadata.
func (e ErrInternalServer) MarshalJSON() ([]byte, error) {
	type Alias ErrInternalServer
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "InternalServerError",
			},
			Alias: (Alias)(e),
		},
	)
}
