package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/api"
	"github.com/postwright/postwright/sdk/meta"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/ssh/terminal"
)

var personaCommand = &cli.Command{
	Name:  "persona",
	Usage: "Manage personas",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a new persona from a file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagFile,
					Aliases: []string{"f"},
					Usage: "Create a persona from the specified YAML or JSON file " +
						"(required)",
					Required: true,
				},
			},
			Action: personaCreate,
		},
		{
			Name:  "list",
			Usage: "Retrieve many personas",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: personaList,
		},
		{
			Name:  "get",
			Usage: "Retrieve a persona",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Retrieve the specified persona (required)",
					Required: true,
				},
				cliFlagOutput,
			},
			Action: personaGet,
		},
		{
			Name:  "update",
			Usage: "Update a persona from a file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Update the specified persona (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagFile,
					Aliases: []string{"f"},
					Usage: "Update the persona from the specified YAML or JSON file " +
						"(required)",
					Required: true,
				},
			},
			Action: personaUpdate,
		},
		{
			Name:  "delete",
			Usage: "Delete a persona",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Delete the specified persona (required)",
					Required: true,
				},
			},
			Action: personaDelete,
		},
		{
			Name:  "set-default",
			Usage: "Make a persona your default",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Make the specified persona the default (required)",
					Required: true,
				},
			},
			Action: personaSetDefault,
		},
		{
			Name:  "duplicate",
			Usage: "Create a copy of a persona",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Duplicate the specified persona (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagName,
					Aliases: []string{"n"},
					Usage:   "Name the copy; defaults to the original name plus a suffix",
				},
			},
			Action: personaDuplicate,
		},
	},
}

func readPersonaFile(filename string) (api.Persona, error) {
	persona := api.Persona{}

	personaBytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return persona, errors.Wrapf(
			err,
			"error reading persona file %s",
			filename,
		)
	}

	if strings.HasSuffix(filename, ".yaml") ||
		strings.HasSuffix(filename, ".yml") {
		if personaBytes, err = yaml.YAMLToJSON(personaBytes); err != nil {
			return persona, errors.Wrapf(
				err,
				"error converting file %s to JSON",
				filename,
			)
		}
	}

	if err = json.Unmarshal(personaBytes, &persona); err != nil {
		return persona, errors.Wrapf(
			err,
			"error unmarshaling persona file %s",
			filename,
		)
	}

	return persona, nil
}

func personaCreate(c *cli.Context) error {
	persona, err := readPersonaFile(c.String(flagFile))
	if err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	persona, err = client.Personas().Create(c.Context, persona)
	if err != nil {
		return err
	}

	fmt.Printf("Created persona %q.\n", persona.Name)

	return nil
}

func personaList(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	opts := meta.ListOptions{}

	for {
		personas, err := client.Personas().List(c.Context, opts)
		if err != nil {
			return err
		}

		if len(personas.Items) == 0 {
			fmt.Println("No personas found.")
			return nil
		}

		switch strings.ToLower(output) {
		case "table":
			table := uitable.New()
			table.AddRow("ID", "NAME", "DESCRIPTION", "DEFAULT?")
			for _, persona := range personas.Items {
				table.AddRow(
					persona.ID,
					persona.Name,
					persona.Description,
					persona.Default,
				)
			}
			fmt.Println(table)

		case "yaml":
			yamlBytes, err := yaml.Marshal(personas)
			if err != nil {
				return errors.Wrap(
					err,
					"error formatting output from list personas operation",
				)
			}
			fmt.Println(string(yamlBytes))

		case "json":
			prettyJSON, err := json.MarshalIndent(personas, "", "  ")
			if err != nil {
				return errors.Wrap(
					err,
					"error formatting output from list personas operation",
				)
			}
			fmt.Println(string(prettyJSON))
		}

		if personas.RemainingItemCount < 1 || personas.Continue == "" {
			break
		}

		// Exit after one page of output if this isn't a terminal
		if !terminal.IsTerminal(int(os.Stdout.Fd())) {
			break
		}

		var shouldContinue bool
		fmt.Println()
		if err := survey.AskOne(
			&survey.Confirm{
				Message: fmt.Sprintf(
					"%d results remain. Fetch more?",
					personas.RemainingItemCount,
				),
			},
			&shouldContinue,
		); err != nil {
			return errors.Wrap(
				err,
				"error confirming if user wishes to continue",
			)
		}
		fmt.Println()
		if !shouldContinue {
			break
		}

		opts.Continue = personas.Continue
	}

	return nil
}

func personaGet(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	persona, err := client.Personas().Get(c.Context, c.String(flagID))
	if err != nil {
		return err
	}

	return printPersona(persona, output)
}

func personaUpdate(c *cli.Context) error {
	persona, err := readPersonaFile(c.String(flagFile))
	if err != nil {
		return err
	}
	persona.ID = c.String(flagID)

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	persona, err = client.Personas().Update(c.Context, persona)
	if err != nil {
		return err
	}

	fmt.Printf("Updated persona %q.\n", persona.Name)

	return nil
}

func personaDelete(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	id := c.String(flagID)
	if err := client.Personas().Delete(c.Context, id); err != nil {
		return err
	}

	fmt.Printf("Deleted persona %q.\n", id)

	return nil
}

func personaSetDefault(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	id := c.String(flagID)
	if err := client.Personas().SetDefault(c.Context, id); err != nil {
		return err
	}

	fmt.Printf("Persona %q is now your default.\n", id)

	return nil
}

func personaDuplicate(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	persona, err := client.Personas().Duplicate(
		c.Context,
		c.String(flagID),
		c.String(flagName),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Created persona %q.\n", persona.Name)

	return nil
}

func printPersona(persona api.Persona, output string) error {
	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "NAME", "DESCRIPTION", "DEFAULT?")
		table.AddRow(
			persona.ID,
			persona.Name,
			persona.Description,
			persona.Default,
		)
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(persona)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get persona operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(persona, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get persona operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
