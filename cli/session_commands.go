package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/api"
	"github.com/urfave/cli/v2"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to Postwright",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     flagServer,
			Aliases:  []string{"s"},
			Usage:    "Log into the API server at the specified address (required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagEmail,
			Aliases:  []string{"e"},
			Usage:    "Log in as the user with the specified email (required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage:   "Specify the password for non-interactive login",
		},
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Log out of Postwright",
	Action: logout,
}

var registerCommand = &cli.Command{
	Name:  "register",
	Usage: "Create a Postwright account and log in",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     flagServer,
			Aliases:  []string{"s"},
			Usage:    "Register with the API server at the specified address (required)", // nolint: lll
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagEmail,
			Aliases:  []string{"e"},
			Usage:    "Register using the specified email (required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagName,
			Aliases:  []string{"n"},
			Usage:    "Register using the specified display name (required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    flagUsername,
			Aliases: []string{"u"},
			Usage:   "Register using the specified username",
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage:   "Specify the password for non-interactive registration",
		},
	},
	Action: register,
}

var whoamiCommand = &cli.Command{
	Name:   "whoami",
	Usage:  "Show the identity of the logged in user",
	Action: whoami,
}

func login(c *cli.Context) error {
	address := c.String(flagServer)
	email := c.String(flagEmail)
	password := c.String(flagPassword)

	if password == "" {
		prompt := &survey.Password{
			Message: "Password",
		}
		if err := survey.AskOne(prompt, &password); err != nil {
			return err
		}
	}

	manager, err := getSessionManager(c, address)
	if err != nil {
		return err
	}
	if err := manager.Login(c.Context, email, password); err != nil {
		return err
	}

	user, _ := manager.User()
	fmt.Printf("\nYou are logged in as %s.\n", user.Email)

	return nil
}

func logout(c *cli.Context) error {
	// Revoke the session server-side first, while we still have the token. If
	// the server is unreachable the local session is torn down regardless.
	if client, err := getClient(c); err == nil {
		if err := client.Sessions().Delete(c.Context); err != nil {
			fmt.Printf("error deleting server-side session: %s\n", err)
		}
	}

	manager, err := getBootstrappedSessionManager(c)
	if err != nil {
		return err
	}
	manager.Logout()

	fmt.Println("Logout was successful.")

	return nil
}

func register(c *cli.Context) error {
	address := c.String(flagServer)
	password := c.String(flagPassword)

	if password == "" {
		prompt := &survey.Password{
			Message: "Password",
		}
		if err := survey.AskOne(prompt, &password); err != nil {
			return err
		}
		var confirmed string
		prompt = &survey.Password{
			Message: "Confirm password",
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if confirmed != password {
			return errors.New("passwords do not match")
		}
	}

	manager, err := getSessionManager(c, address)
	if err != nil {
		return err
	}
	if err := manager.Register(
		c.Context,
		api.UserRegistration{
			Email:    c.String(flagEmail),
			Name:     c.String(flagName),
			Username: c.String(flagUsername),
			Password: password,
		},
	); err != nil {
		return err
	}

	user, _ := manager.User()
	fmt.Printf("\nWelcome to Postwright! You are logged in as %s.\n", user.Email)

	return nil
}

func whoami(c *cli.Context) error {
	manager, err := getBootstrappedSessionManager(c)
	if err != nil {
		return err
	}

	user, ok := manager.User()
	if !ok {
		return errors.New(
			"you are not logged in; please use `pw login` to continue",
		)
	}

	fmt.Printf("%s (%s)\n", user.Name, user.Email)

	return nil
}
