package main

import (
	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/api"
	"github.com/postwright/postwright/sdk/session"
	"github.com/urfave/cli/v2"
)

func getClient(c *cli.Context) (api.Client, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving configuration")
	}
	return api.NewClient(
		config.APIAddress,
		config.APIToken,
		c.Bool(flagInsecure),
	), nil
}

// getSessionManager returns a session.Manager bound to the specified API
// server. Tokens it establishes or discards flow through the CLI's config
// file.
func getSessionManager(
	c *cli.Context,
	apiAddress string,
) (*session.Manager, error) {
	tokens := &configTokenStore{apiAddress: apiAddress}
	return session.NewManager(
		tokens,
		session.NewClientAuthAPI(apiAddress, tokens, c.Bool(flagInsecure)),
	)
}

// getBootstrappedSessionManager returns a session.Manager for the API server
// named by existing configuration, with the persisted session (if any)
// already restored.
func getBootstrappedSessionManager(c *cli.Context) (*session.Manager, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving configuration")
	}
	manager, err := getSessionManager(c, config.APIAddress)
	if err != nil {
		return nil, err
	}
	manager.Bootstrap(c.Context)
	return manager, nil
}
