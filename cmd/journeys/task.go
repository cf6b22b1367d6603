package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/journeys/internal/theme"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add, complete, reopen and delete tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <topic-id> <name>",
	Short: "Add a task to a topic",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskCompleted(cmd, args[0], true)
	},
}

var taskUndoCmd = &cobra.Command{
	Use:   "undo <task-id>",
	Short: "Mark a task incomplete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskCompleted(cmd, args[0], false)
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	taskCmd.AddCommand(taskAddCmd, taskDoneCmd, taskUndoCmd, taskDeleteCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	res, err := app.svc.AddTask(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Added task %s %s\n", res.Task.Name, theme.DimmedStyle.Render(res.Task.ID))
	if len(res.Reopened) > 0 {
		fmt.Printf("Reopened %s\n", titles(res.Reopened))
	}
	return nil
}

func setTaskCompleted(cmd *cobra.Command, id string, done bool) error {
	res, err := app.svc.SetTaskCompleted(cmd.Context(), id, done)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", theme.Checkbox(res.Task.Completed), res.Task.Name)
	if len(res.Reopened) > 0 {
		fmt.Printf("Reopened %s\n", titles(res.Reopened))
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	if _, err := app.svc.DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted task")
	return nil
}
