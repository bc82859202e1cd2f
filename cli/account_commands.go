package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/api"
	"github.com/urfave/cli/v2"
)

var accountCommand = &cli.Command{
	Name:  "account",
	Usage: "Manage your Postwright account",
	Subcommands: []*cli.Command{
		{
			Name:  "get",
			Usage: "Retrieve your account",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: accountGet,
		},
		{
			Name:  "update",
			Usage: "Update your profile",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagName,
					Aliases:  []string{"n"},
					Usage:    "Set the specified display name (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagUsername,
					Aliases: []string{"u"},
					Usage:   "Set the specified username",
				},
				&cli.StringFlag{
					Name:    flagBio,
					Aliases: []string{"b"},
					Usage:   "Set the specified bio",
				},
				cliFlagOutput,
			},
			Action: accountUpdate,
		},
		{
			Name:   "set-password",
			Usage:  "Change your password",
			Action: accountSetPassword,
		},
		{
			Name:  "deactivate",
			Usage: "Permanently deactivate your account",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    flagYes,
					Aliases: []string{"y"},
					Usage:   "Non-interactively confirm deactivation",
				},
			},
			Action: accountDeactivate,
		},
	},
}

func accountGet(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	user, err := client.Users().GetCurrent(c.Context)
	if err != nil {
		return err
	}

	return printUser(user, output)
}

func accountUpdate(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	user, err := client.Users().UpdateCurrent(
		c.Context,
		api.UserProfileUpdate{
			Name:     c.String(flagName),
			Username: c.String(flagUsername),
			Bio:      c.String(flagBio),
		},
	)
	if err != nil {
		return err
	}

	return printUser(user, output)
}

func accountSetPassword(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	var currentPassword, newPassword string
	if err := survey.AskOne(
		&survey.Password{
			Message: "Current password",
		},
		&currentPassword,
	); err != nil {
		return err
	}
	if err := survey.AskOne(
		&survey.Password{
			Message: "New password",
		},
		&newPassword,
	); err != nil {
		return err
	}

	if err := client.Users().ChangePassword(
		c.Context,
		api.PasswordChange{
			CurrentPassword: currentPassword,
			NewPassword:     newPassword,
		},
	); err != nil {
		return err
	}

	fmt.Println("Password changed.")

	return nil
}

func accountDeactivate(c *cli.Context) error {
	if !c.Bool(flagYes) {
		var confirmed bool
		if err := survey.AskOne(
			&survey.Confirm{
				Message: "Deactivating your account revokes all of your sessions " +
					"and cannot be undone. Proceed?",
			},
			&confirmed,
		); err != nil {
			return errors.Wrap(
				err,
				"error confirming if user wishes to continue",
			)
		}
		if !confirmed {
			return nil
		}
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	if err := client.Users().DeactivateCurrent(c.Context); err != nil {
		return err
	}

	// The server already revoked every session; discard the local one too
	manager, err := getBootstrappedSessionManager(c)
	if err != nil {
		return err
	}
	manager.Logout()

	fmt.Println("Your account has been deactivated.")

	return nil
}

func printUser(user api.User, output string) error {
	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("EMAIL", "NAME", "USERNAME", "MEMBER SINCE")
		table.AddRow(
			user.Email,
			user.Name,
			user.Username,
			user.Created,
		)
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(user)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get user operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get user operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
