package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/theme"
	"github.com/nhle/journeys/internal/ui"
)

var (
	topicParent    string
	topicDeleteYes bool
)

var topicCmd = &cobra.Command{
	Use:     "topic",
	Aliases: []string{"t"},
	Short:   "Add, complete, reopen, rename, move and delete topics",
}

var topicAddCmd = &cobra.Command{
	Use:   "add <journey-id> <title>",
	Short: "Add a topic, at the root or under --parent",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopicAdd,
}

var topicCompleteCmd = &cobra.Command{
	Use:     "complete <topic-id>",
	Aliases: []string{"done"},
	Short:   "Complete a topic whose tasks and subtopics are all done",
	Args:    cobra.ExactArgs(1),
	RunE:    runTopicComplete,
}

var topicReopenCmd = &cobra.Command{
	Use:   "reopen <topic-id>",
	Short: "Reopen a topic together with everything below it",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicReopen,
}

var topicRenameCmd = &cobra.Command{
	Use:   "rename <topic-id> <title>",
	Short: "Rename a topic",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopicRename,
}

var topicMoveCmd = &cobra.Command{
	Use:   "move <topic-id> <order>",
	Short: "Set a topic's position among its siblings",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopicMove,
}

var topicDeleteCmd = &cobra.Command{
	Use:   "delete <topic-id>",
	Short: "Delete a topic with its subtopics and tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicDelete,
}

func init() {
	topicAddCmd.Flags().StringVarP(&topicParent, "parent", "p", "", "parent topic ID")
	topicDeleteCmd.Flags().BoolVarP(&topicDeleteYes, "yes", "y", false, "skip confirmation")

	topicCmd.AddCommand(topicAddCmd, topicCompleteCmd, topicReopenCmd,
		topicRenameCmd, topicMoveCmd, topicDeleteCmd)
}

func runTopicAdd(cmd *cobra.Command, args []string) error {
	var parentID *string
	if topicParent != "" {
		parentID = &topicParent
	}

	res, err := app.svc.AddTopic(cmd.Context(), args[0], parentID, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Added topic %s %s\n", theme.TopicStyle.Render(res.Topic.Title), theme.DimmedStyle.Render(res.Topic.ID))
	if len(res.Reopened) > 0 {
		fmt.Printf("Reopened %s\n", titles(res.Reopened))
	}
	return nil
}

func runTopicComplete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	res, err := app.svc.MarkTopicComplete(ctx, args[0])
	if model.IsIncompleteChildren(err) {
		// Name the blockers instead of listing IDs.
		if topic, _, _, lerr := app.svc.TopicDetail(ctx, args[0]); lerr == nil {
			if t, serr := app.svc.Snapshot(ctx, topic.JourneyID); serr == nil {
				return errors.New(ui.DescribeError(err, t))
			}
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", theme.Checkbox(true), res.Topic.Title)
	if len(res.AutoCompleted) > 0 {
		fmt.Printf("Also completed %s\n", titles(res.AutoCompleted))
	}
	return nil
}

func runTopicReopen(cmd *cobra.Command, args []string) error {
	res, err := app.svc.MarkTopicIncomplete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Reopened %s and %s\n", plural(len(res.Topics), "topic"), plural(len(res.Tasks), "task"))
	return nil
}

func runTopicRename(cmd *cobra.Command, args []string) error {
	res, err := app.svc.RenameTopic(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Renamed to %q\n", res.Topic.Title)
	return nil
}

func runTopicMove(cmd *cobra.Command, args []string) error {
	order, err := strconv.Atoi(args[1])
	if err != nil {
		return &model.ValidationError{Field: "order", Message: fmt.Sprintf("%q is not a number", args[1])}
	}
	res, err := app.svc.ReorderTopic(cmd.Context(), args[0], order)
	if err != nil {
		return err
	}
	fmt.Printf("Moved %q to position %d\n", res.Topic.Title, res.Topic.Order)
	return nil
}

func runTopicDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topic, children, tasks, err := app.svc.TopicDetail(ctx, args[0])
	if err != nil {
		return err
	}

	if !topicDeleteYes {
		question := fmt.Sprintf("Delete topic %q?", topic.Title)
		if len(children) > 0 || len(tasks) > 0 {
			question = fmt.Sprintf("Delete topic %q with %s, %s and everything below them?",
				topic.Title, plural(len(children), "subtopic"), plural(len(tasks), "task"))
		}
		confirmed, err := confirm(question)
		if err != nil || !confirmed {
			return err
		}
	}

	res, err := app.svc.DeleteTopic(ctx, topic.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %s and %s\n", plural(len(res.TopicIDs), "topic"), plural(len(res.TaskIDs), "task"))
	return nil
}
