// Package command provides CLI command definitions for taskhub-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arvel/taskhub-go/internal/cli/connection"
	"github.com/arvel/taskhub-go/internal/cli/output"
)

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "Register a new account",
		ArgsUsage: "USERNAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted from TASKHUB_PASSWORD if unset)",
				EnvVars: []string{"TASKHUB_PASSWORD"},
			},
		},
		Action: register,
	}
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Log in and print an access token",
		ArgsUsage: "USERNAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password",
				EnvVars: []string{"TASKHUB_PASSWORD"},
			},
		},
		Action: login,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func readCredentials(c *cli.Context) (*credentials, error) {
	username := c.Args().First()
	if username == "" {
		return nil, fmt.Errorf("username required")
	}
	password := c.String("password")
	if password == "" {
		return nil, fmt.Errorf("password required (use --password or TASKHUB_PASSWORD)")
	}
	return &credentials{Username: username, Password: password}, nil
}

func register(c *cli.Context) error {
	creds, err := readCredentials(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := newClient(c).Post(ctx, "/auth/register", creds)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Msg string `json:"msg"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Println(result.Msg)
	return nil
}

func login(c *cli.Context) error {
	creds, err := readCredentials(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := newClient(c).Post(ctx, "/auth/login", creds)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	}

	// Bare token on stdout so it can be captured:
	//   export TASKHUB_TOKEN=$(taskhub-cli login alice -p ...)
	fmt.Println(result.AccessToken)
	return nil
}
