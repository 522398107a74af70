// Package command provides CLI command definitions for TaskHub.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command and global flags
//   - auth.go: register and login commands
//   - task.go: Task subcommand group
//
// Commands follow a consistent pattern of parsing flags,
// calling the server API, and formatting output.
package command
