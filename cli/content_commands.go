package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/api"
	"github.com/urfave/cli/v2"
)

var captionCommand = &cli.Command{
	Name:  "caption",
	Usage: "Generate an Instagram caption",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     flagTopic,
			Aliases:  []string{"t"},
			Usage:    "Generate a caption about the specified topic (required)",
			Required: true,
		},
		cliFlagPersona,
		&cli.StringFlag{
			Name:    flagStyle,
			Aliases: []string{"s"},
			Usage: "Generate a caption in the specified style; supported styles: " +
				"engagement, informative, storytelling",
		},
		&cli.BoolFlag{
			Name:    flagHashtags,
			Aliases: []string{"H"},
			Usage:   "Generate hashtags alongside the caption",
		},
		&cli.StringFlag{
			Name:    flagContext,
			Aliases: []string{"c"},
			Usage:   "Enrich the topic with the specified additional context",
		},
	},
	Action: generateCaption,
}

var hashtagsCommand = &cli.Command{
	Name:  "hashtags",
	Usage: "Generate Instagram hashtags",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     flagTopic,
			Aliases:  []string{"t"},
			Usage:    "Generate hashtags for the specified topic (required)",
			Required: true,
		},
		cliFlagPersona,
		&cli.IntFlag{
			Name:    flagCount,
			Aliases: []string{"c"},
			Usage:   "Generate the specified number of hashtags",
		},
	},
	Action: generateHashtags,
}

var ideasCommand = &cli.Command{
	Name:  "ideas",
	Usage: "Generate Instagram content ideas",
	Flags: []cli.Flag{
		cliFlagPersona,
		&cli.StringFlag{
			Name:    flagType,
			Aliases: []string{"t"},
			Usage: "Generate ideas for the specified content type; supported " +
				"types: posts, stories, reels",
		},
		&cli.IntFlag{
			Name:    flagCount,
			Aliases: []string{"c"},
			Usage:   "Generate the specified number of ideas",
		},
		cliFlagOutput,
	},
	Action: generateIdeas,
}

var analyzeCommand = &cli.Command{
	Name:  "analyze",
	Usage: "Analyze existing Instagram content against a persona",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     flagContent,
			Aliases:  []string{"c"},
			Usage:    "Analyze the specified content (required)",
			Required: true,
		},
		cliFlagPersona,
		&cli.StringFlag{
			Name:    flagType,
			Aliases: []string{"t"},
			Usage:   "Analyze the content as the specified content type",
		},
		&cli.StringSliceFlag{
			Name:    flagMetric,
			Aliases: []string{"m"},
			Usage: "Optimize suggestions for the specified metric; may be " +
				"specified more than once",
		},
	},
	Action: analyzeContent,
}

var usageCommand = &cli.Command{
	Name:  "usage",
	Usage: "Show today's generation counters",
	Flags: []cli.Flag{
		cliFlagOutput,
	},
	Action: getUsage,
}

func generateCaption(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	caption, err := client.Content().GenerateCaption(
		c.Context,
		api.CaptionRequest{
			PersonaID:         c.String(flagPersona),
			Topic:             c.String(flagTopic),
			Style:             c.String(flagStyle),
			IncludeHashtags:   c.Bool(flagHashtags),
			AdditionalContext: c.String(flagContext),
		},
	)
	if err != nil {
		return err
	}

	fmt.Println(caption.Text)
	if len(caption.Hashtags) > 0 {
		fmt.Printf("\n%s\n", strings.Join(caption.Hashtags, " "))
	}

	return nil
}

func generateHashtags(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	hashtags, err := client.Content().GenerateHashtags(
		c.Context,
		api.HashtagsRequest{
			PersonaID: c.String(flagPersona),
			Topic:     c.String(flagTopic),
			Count:     c.Int(flagCount),
		},
	)
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(hashtags.Hashtags, " "))

	return nil
}

func generateIdeas(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	ideas, err := client.Content().GenerateIdeas(
		c.Context,
		api.IdeasRequest{
			PersonaID:   c.String(flagPersona),
			ContentType: c.String(flagType),
			Count:       c.Int(flagCount),
		},
	)
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.Wrap = true
		table.AddRow("TITLE", "FORMAT", "CALL TO ACTION", "DESCRIPTION")
		for _, idea := range ideas.Items {
			table.AddRow(
				idea.Title,
				idea.Format,
				idea.CallToAction,
				idea.Description,
			)
		}
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(ideas)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from generate ideas operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(ideas, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from generate ideas operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}

func analyzeContent(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	analysis, err := client.Content().AnalyzeContent(
		c.Context,
		api.AnalysisRequest{
			PersonaID:     c.String(flagPersona),
			Content:       c.String(flagContent),
			ContentType:   c.String(flagType),
			TargetMetrics: c.StringSlice(flagMetric),
		},
	)
	if err != nil {
		return err
	}

	table := uitable.New()
	table.AddRow("CHARACTERS", "WORDS", "HASHTAGS", "MENTIONS", "ALIGNMENT")
	table.AddRow(
		analysis.CharacterCount,
		analysis.WordCount,
		analysis.HashtagCount,
		analysis.MentionCount,
		fmt.Sprintf("%.2f", analysis.AlignmentScore),
	)
	fmt.Println(table)

	if analysis.Feedback != "" {
		fmt.Printf("\n%s\n", analysis.Feedback)
	}
	if len(analysis.Suggestions) > 0 {
		fmt.Println()
		for _, suggestion := range analysis.Suggestions {
			fmt.Printf("- %s\n", suggestion)
		}
	}

	return nil
}

func getUsage(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting postwright client")
	}

	usage, err := client.Content().GetUsage(c.Context)
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("CAPTIONS", "HASHTAGS", "IDEAS", "ANALYSES")
		table.AddRow(usage.Captions, usage.Hashtags, usage.Ideas, usage.Analyses)
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(usage)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get usage operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(usage, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get usage operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
