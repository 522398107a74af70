// Package command provides CLI command definitions for taskhub-cli.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/arvel/taskhub-go/internal/cli/connection"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "taskhub-cli",
		Usage:   "TaskHub command-line client",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RegisterCommand(),
			LoginCommand(),
			TaskCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "TaskHub server address (e.g., localhost:8080)",
			EnvVars: []string{"TASKHUB_SERVER"},
			Value:   "localhost:8080",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Bearer access token (output of the login command)",
			EnvVars: []string{"TASKHUB_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server string
	Token  string
	Output string // table, json
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server: c.String("server"),
		Token:  c.String("token"),
		Output: c.String("output"),
	}
}

// newClient builds an HTTP client from the global flags.
func newClient(c *cli.Context) *connection.HTTPClient {
	flags := ParseGlobalFlags(c)
	return connection.NewHTTPClient(flags.Server, flags.Token)
}

// requireToken builds an HTTP client and fails when no token is configured.
func requireToken(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)
	if flags.Token == "" {
		return nil, fmt.Errorf("no access token: run `taskhub-cli login` and pass --token or set TASKHUB_TOKEN")
	}
	return connection.NewHTTPClient(flags.Server, flags.Token), nil
}
