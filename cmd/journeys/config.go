package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/journeys/internal/model"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to --config",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := app.cfg
	fmt.Printf("config file      %s\n", configPath)
	fmt.Printf("database.path    %s\n", cfg.Database.Path)
	fmt.Printf("streak.timezone  %s\n", cfg.Streak.Timezone)
	fmt.Printf("log.level        %s\n", cfg.Log.Level)
	fmt.Printf("log.format       %s\n", cfg.Log.Format)
	fmt.Printf("log.file         %s\n", cfg.Log.File)
	fmt.Printf("display.theme    %s\n", cfg.Display.Theme)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := model.SaveConfig(configPath, app.cfg); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
