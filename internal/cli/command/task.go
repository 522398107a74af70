// Package command provides CLI command definitions for taskhub-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arvel/taskhub-go/internal/cli/connection"
	"github.com/arvel/taskhub-go/internal/cli/output"
)

// taskView mirrors the server's task representation.
type taskView struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// TaskCommand returns the task subcommand group.
func TaskCommand() *cli.Command {
	return &cli.Command{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "Manage tasks",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a new task",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Task title",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Task description",
					},
				},
				Action: taskCreate,
			},
			{
				Name:   "list",
				Usage:  "List your tasks",
				Action: taskList,
			},
			{
				Name:      "get",
				Usage:     "Get task details",
				ArgsUsage: "TASK_ID",
				Action:    taskGet,
			},
			{
				Name:      "update",
				Usage:     "Update a task (only the given flags are changed)",
				ArgsUsage: "TASK_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "New description",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "New status: pending, in_progress, completed",
					},
				},
				Action: taskUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a task",
				ArgsUsage: "TASK_ID",
				Action:    taskDelete,
			},
		},
	}
}

func taskArgID(c *cli.Context) (uint64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("task ID required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q", raw)
	}
	return id, nil
}

func taskCreate(c *cli.Context) error {
	client, err := requireToken(c)
	if err != nil {
		return err
	}

	body := map[string]any{"title": c.String("title")}
	if c.IsSet("description") {
		body["description"] = c.String("description")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/tasks/", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var task taskView
	if err := connection.ParseResponse(resp, &task); err != nil {
		return err
	}

	return outputTask(ParseGlobalFlags(c), &task)
}

func taskList(c *cli.Context) error {
	client, err := requireToken(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/tasks/")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var tasks []taskView
	if err := connection.ParseResponse(resp, &tasks); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, tasks)
	}

	table := &output.Table{Headers: []string{"ID", "TITLE", "STATUS", "DESCRIPTION"}}
	for _, task := range tasks {
		desc := ""
		if task.Description != nil {
			desc = *task.Description
		}
		table.AddRow(strconv.FormatUint(task.ID, 10), task.Title, task.Status, desc)
	}
	if err := table.Render(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d tasks\n", len(tasks))
	return nil
}

func taskGet(c *cli.Context) error {
	id, err := taskArgID(c)
	if err != nil {
		return err
	}
	client, err := requireToken(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/tasks/"+strconv.FormatUint(id, 10))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var task taskView
	if err := connection.ParseResponse(resp, &task); err != nil {
		return err
	}

	return outputTask(ParseGlobalFlags(c), &task)
}

func taskUpdate(c *cli.Context) error {
	id, err := taskArgID(c)
	if err != nil {
		return err
	}
	client, err := requireToken(c)
	if err != nil {
		return err
	}

	// Only explicitly set flags enter the patch; absent fields stay untouched
	// server-side.
	body := map[string]any{}
	if c.IsSet("title") {
		body["title"] = c.String("title")
	}
	if c.IsSet("description") {
		body["description"] = c.String("description")
	}
	if c.IsSet("status") {
		body["status"] = c.String("status")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Put(ctx, "/tasks/"+strconv.FormatUint(id, 10), body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var task taskView
	if err := connection.ParseResponse(resp, &task); err != nil {
		return err
	}

	return outputTask(ParseGlobalFlags(c), &task)
}

func taskDelete(c *cli.Context) error {
	id, err := taskArgID(c)
	if err != nil {
		return err
	}
	client, err := requireToken(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Delete(ctx, "/tasks/"+strconv.FormatUint(id, 10))
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

func outputTask(flags *GlobalFlags, task *taskView) error {
	if output.Format(flags.Output) == output.FormatJSON {
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, task)
	}

	desc := ""
	if task.Description != nil {
		desc = *task.Description
	}
	table := &output.Table{Headers: []string{"ID", "TITLE", "STATUS", "DESCRIPTION"}}
	table.AddRow(strconv.FormatUint(task.ID, 10), task.Title, task.Status, desc)
	return table.Render(os.Stdout)
}
