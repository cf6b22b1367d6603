package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/journeys/internal/theme"
	"github.com/nhle/journeys/internal/ui"
	"github.com/nhle/journeys/internal/ui/journeyform"
)

var (
	journeyDescription string
	journeyShowIDs     bool
	journeyDeleteYes   bool
)

var journeyCmd = &cobra.Command{
	Use:     "journey",
	Aliases: []string{"j"},
	Short:   "Create, list, show and delete journeys",
}

var journeyCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a journey (prompts when no title is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJourneyCreate,
}

var journeyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List journeys with their progress",
	Args:    cobra.NoArgs,
	RunE:    runJourneyList,
}

var journeyShowCmd = &cobra.Command{
	Use:   "show <journey-id>",
	Short: "Show a journey's topic tree and stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runJourneyShow,
}

var journeyDeleteCmd = &cobra.Command{
	Use:   "delete <journey-id>",
	Short: "Delete a journey with all its topics and tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runJourneyDelete,
}

func init() {
	journeyCreateCmd.Flags().StringVarP(&journeyDescription, "description", "d", "", "journey description")
	journeyShowCmd.Flags().BoolVar(&journeyShowIDs, "ids", true, "print topic and task IDs")
	journeyDeleteCmd.Flags().BoolVarP(&journeyDeleteYes, "yes", "y", false, "skip confirmation")

	journeyCmd.AddCommand(journeyCreateCmd, journeyListCmd, journeyShowCmd, journeyDeleteCmd)
}

func runJourneyCreate(cmd *cobra.Command, args []string) error {
	title := ""
	description := journeyDescription
	if len(args) == 1 {
		title = args[0]
	} else {
		form := huh.NewForm(huh.NewGroup(journeyform.Fields(&title, &description)...))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("reading journey details: %w", err)
		}
	}

	j, err := app.svc.CreateJourney(cmd.Context(), title, description)
	if err != nil {
		return err
	}
	fmt.Printf("Created journey %s %s\n", theme.TopicStyle.Render(j.Title), theme.DimmedStyle.Render(j.ID))
	return nil
}

func runJourneyList(cmd *cobra.Command, args []string) error {
	journeys, err := app.svc.ListJourneys(cmd.Context())
	if err != nil {
		return err
	}
	if len(journeys) == 0 {
		fmt.Println("No journeys yet. Run 'journeys journey create' to start one.")
		return nil
	}

	for _, j := range journeys {
		fmt.Printf("%s  %s\n  %s\n",
			theme.TopicStyle.Render(j.Title),
			theme.DimmedStyle.Render(j.ID),
			ui.RenderStats(j.Stats),
		)
	}
	return nil
}

func runJourneyShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	j, err := app.svc.GetJourney(ctx, args[0])
	if err != nil {
		return err
	}
	t, err := app.svc.Snapshot(ctx, j.ID)
	if err != nil {
		return err
	}

	printJourneyHeader(j)
	fmt.Println()
	fmt.Println(ui.RenderTree(t, journeyShowIDs))
	return nil
}

func runJourneyDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	j, err := app.svc.GetJourney(ctx, args[0])
	if err != nil {
		return err
	}

	if !journeyDeleteYes {
		confirmed, err := confirm(fmt.Sprintf("Delete journey %q with %s?",
			j.Title, plural(j.Stats.TotalTopics, "topic")))
		if err != nil || !confirmed {
			return err
		}
	}

	if err := app.svc.DeleteJourney(ctx, j.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted journey %q\n", j.Title)
	return nil
}

// confirm asks a yes/no question. Aborting counts as no.
func confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}
