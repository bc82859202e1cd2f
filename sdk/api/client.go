package api

// Client is the general interface for the Postwright API. It does little
// more than expose access to the more specialized clients.
type Client interface {
	Sessions() SessionsClient
	Users() UsersClient
	Personas() PersonasClient
	Content() ContentClient
}

type client struct {
	sessionsClient SessionsClient
	usersClient    UsersClient
	personasClient PersonasClient
	contentClient  ContentClient
}

// NewClient returns a Postwright client.
func NewClient(apiAddress, apiToken string, allowInsecure bool) Client {
	return &client{
		sessionsClient: NewSessionsClient(apiAddress, apiToken, allowInsecure),
		usersClient:    NewUsersClient(apiAddress, apiToken, allowInsecure),
		personasClient: NewPersonasClient(apiAddress, apiToken, allowInsecure),
		contentClient:  NewContentClient(apiAddress, apiToken, allowInsecure),
	}
}

func (c *client) Sessions() SessionsClient {
	return c.sessionsClient
}

func (c *client) Users() UsersClient {
	return c.usersClient
}

func (c *client) Personas() PersonasClient {
	return c.personasClient
}

func (c *client) Content() ContentClient {
	return c.contentClient
}
