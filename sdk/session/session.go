package session

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/api"
	"github.com/postwright/postwright/sdk/meta"
)

// TokenStore is an interface for the component responsible for persisting an
// opaque bearer token across process restarts. The Manager never parses the
// token; it only asks whether one is present and arranges for it to be
// discarded.
type TokenStore interface {
	// HasToken returns true if a token is currently persisted.
	HasToken() bool
	// Clear discards the persisted token. Clearing an already-empty store is
	// not an error.
	Clear() error
}

// AuthAPI is an interface for the component that talks to the authentication
// API. Implementations own transport, encoding, and endpoint paths, and are
// responsible for persisting the token issued by a successful Authenticate or
// RegisterAccount call into the TokenStore.
type AuthAPI interface {
	// Authenticate exchanges credentials for an identity, persisting the
	// issued token as a side effect of success.
	Authenticate(ctx context.Context, email, password string) (api.User, error)
	// RegisterAccount creates a new account and, like Authenticate, persists
	// the issued token on success.
	RegisterAccount(
		ctx context.Context,
		registration api.UserRegistration,
	) (api.User, error)
	// FetchCurrentIdentity retrieves the identity the persisted token belongs
	// to.
	FetchCurrentIdentity(ctx context.Context) (api.User, error)
}

// Manager is the single source of truth for "who is logged in." It bridges a
// persisted token and an in-memory identity. One Manager is constructed at
// process startup and handed to every consumer that needs it; there is no
// ambient singleton.
//
// A Manager moves through three states: bootstrapping (loading, no identity),
// authenticated (identity present), and anonymous (no identity). Bootstrap
// runs at most once and never runs again for the life of the Manager.
type Manager struct {
	mu            sync.RWMutex
	tokens        TokenStore
	authAPI       AuthAPI
	user          *api.User
	loading       bool
	bootstrapOnce sync.Once
}

// NewManager returns a new Manager. Both collaborators are required;
// constructing a Manager without them is a configuration error surfaced at
// startup rather than a runtime lookup failure.
func NewManager(tokens TokenStore, authAPI AuthAPI) (*Manager, error) {
	if tokens == nil {
		return nil, errors.New("a token store is required")
	}
	if authAPI == nil {
		return nil, errors.New("an auth API client is required")
	}
	return &Manager{
		tokens:  tokens,
		authAPI: authAPI,
		loading: true,
	}, nil
}

// Bootstrap attempts, exactly once, to restore a session from a previously
// persisted token. If no token is present, or the identity fetch fails, the
// Manager resolves to the anonymous state. A single attempt is made; there
// are no retries. Failures are swallowed (logged for diagnostics only)
// because the caller cannot act on them-- an unrestorable session simply
// means the user must log in again.
//
// The stored token is discarded only when the API rejects it (an
// authentication-class failure). A transport failure leaves the token in
// place so a later process start can try again.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.bootstrapOnce.Do(func() {
		defer func() {
			m.mu.Lock()
			m.loading = false
			m.mu.Unlock()
		}()
		if !m.tokens.HasToken() {
			return
		}
		user, err := m.authAPI.FetchCurrentIdentity(ctx)
		if err != nil {
			if isAuthFailure(err) {
				if clearErr := m.tokens.Clear(); clearErr != nil {
					log.Println(
						errors.Wrap(clearErr, "error discarding rejected token"),
					)
				}
			}
			log.Println(errors.Wrap(err, "error restoring session"))
			return
		}
		m.mu.Lock()
		m.user = &user
		m.mu.Unlock()
	})
}

// Login establishes a session using the provided credentials. On success the
// token is persisted (by the AuthAPI collaborator) and the identity becomes
// current. On failure the error is propagated unchanged and the Manager's
// state is untouched; user-visible messaging is the caller's concern.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	user, err := m.authAPI.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return nil
}

// Register creates a new account. Like Login, success also establishes a
// session.
func (m *Manager) Register(
	ctx context.Context,
	registration api.UserRegistration,
) error {
	user, err := m.authAPI.RegisterAccount(ctx, registration)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return nil
}

// Logout discards the persisted token and clears the current identity. It is
// idempotent and deliberately infallible: a failure to remove the token from
// its store is logged, but the in-memory session is always torn down.
func (m *Manager) Logout() {
	if err := m.tokens.Clear(); err != nil {
		log.Println(errors.Wrap(err, "error discarding token"))
	}
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
}

// User returns the current identity, if any.
func (m *Manager) User() (api.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return api.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated returns true if and only if an identity is current.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// Loading returns true only while the initial bootstrap is still in flight.
// Once bootstrap resolves it is permanently false for the life of the
// Manager.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// isAuthFailure returns true if the API rejected the request-- as opposed to
// the request never reaching the API at all.
func isAuthFailure(err error) bool {
	switch errors.Cause(err).(type) {
	case *meta.ErrAuthentication, *meta.ErrNotFound:
		return true
	}
	return false
}
