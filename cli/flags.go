package main

import "github.com/urfave/cli/v2"

const (
	flagBio      = "bio"
	flagContent  = "content"
	flagContext  = "context"
	flagCount    = "count"
	flagEmail    = "email"
	flagFile     = "file"
	flagHashtags = "hashtags"
	flagID       = "id"
	flagInsecure = "insecure"
	flagMetric   = "metric"
	flagName     = "name"
	flagOutput   = "output"
	flagPassword = "password"
	flagPersona  = "persona"
	flagServer   = "server"
	flagStyle    = "style"
	flagTopic    = "topic"
	flagType     = "type"
	flagUsername = "username"
	flagYes      = "yes"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
	cliFlagPersona = &cli.StringFlag{
		Name:    flagPersona,
		Aliases: []string{"r"},
		Usage: "Generate using the specified persona; defaults to the default " +
			"persona",
	}
)
