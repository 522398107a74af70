// Package main provides the entry point for taskhub-cli.
//
// The CLI tool provides command-line access to a TaskHub server for:
//
//   - Account registration and login
//   - Task management (create, list, get, update, delete)
//
// Usage:
//
//	taskhub-cli [command] [flags]
//	taskhub-cli register alice --password s3cret
//	export TASKHUB_TOKEN=$(taskhub-cli login alice --password s3cret)
//	taskhub-cli task list --output json
package main
