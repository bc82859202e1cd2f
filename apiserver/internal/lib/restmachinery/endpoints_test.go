package restmachinery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/meta"
	"github.com/stretchr/testify/require"
)

func TestServeRequestTranslatesErrors(t *testing.T) {
	testCases := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedKind       string
	}{
		{
			name:               "authentication error",
			err:                &meta.ErrAuthentication{Reason: "session expired"},
			expectedStatusCode: http.StatusUnauthorized,
			expectedKind:       "AuthenticationError",
		},
		{
			name:               "authorization error",
			err:                &meta.ErrAuthorization{},
			expectedStatusCode: http.StatusForbidden,
			expectedKind:       "AuthorizationError",
		},
		{
			name:               "bad request error",
			err:                &meta.ErrBadRequest{Reason: "no such style"},
			expectedStatusCode: http.StatusBadRequest,
			expectedKind:       "BadRequestError",
		},
		{
			name:               "not found error",
			err:                &meta.ErrNotFound{Type: "Persona", ID: "12345"},
			expectedStatusCode: http.StatusNotFound,
			expectedKind:       "NotFoundError",
		},
		{
			name: "conflict error",
			err: &meta.ErrConflict{
				Type:   "Persona",
				ID:     "Travel Brand",
				Reason: "name already in use",
			},
			expectedStatusCode: http.StatusConflict,
			expectedKind:       "ConflictError",
		},
		{
			name:               "limit exceeded error",
			err:                &meta.ErrLimitExceeded{Reason: "daily limit reached"},
			expectedStatusCode: http.StatusTooManyRequests,
			expectedKind:       "LimitExceededError",
		},
		{
			name:               "not supported error",
			err:                &meta.ErrNotSupported{},
			expectedStatusCode: http.StatusNotImplemented,
			expectedKind:       "NotSupportedError",
		},
		{
			name:               "internal server error",
			err:                &meta.ErrInternalServer{},
			expectedStatusCode: http.StatusInternalServerError,
			expectedKind:       "InternalServerError",
		},
		{
			// Services wrap typed errors on the way up; the cause is what
			// should determine the status code
			name: "wrapped limit exceeded error",
			err: errors.Wrap(
				&meta.ErrLimitExceeded{Reason: "daily limit reached"},
				"error generating caption",
			),
			expectedStatusCode: http.StatusTooManyRequests,
			expectedKind:       "LimitExceededError",
		},
		{
			name:               "unrecognized error",
			err:                errors.New("something went sideways"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedKind:       "InternalServerError",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)
			b := &BaseEndpoints{}
			b.ServeRequest(
				InboundRequest{
					W: rr,
					R: r,
					EndpointLogic: func() (interface{}, error) {
						return nil, testCase.err
					},
					SuccessCode: http.StatusOK,
				},
			)
			require.Equal(t, testCase.expectedStatusCode, rr.Code)
			require.Contains(t, rr.Body.String(), testCase.expectedKind)
		})
	}
}

func TestServeRequestSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	r, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	b := &BaseEndpoints{}
	b.ServeRequest(
		InboundRequest{
			W: rr,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return map[string]string{"hello": "world"}, nil
			},
			SuccessCode: http.StatusCreated,
		},
	)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), "world")
}
