package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/db"
)

var (
	schedulePolicy  string
	scheduleDisable bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run evaluation auto-scheduling once from the command line",
	Long: `Enable auto-scheduling and run the batch scheduler over the whole
employee directory, printing the scheduled/skipped tally. With --disable the
flag is turned off and nothing else changes.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&schedulePolicy, "policy", "", "Transition policy: complete_cycle, immediate, or next_period")
	scheduleCmd.Flags().BoolVar(&scheduleDisable, "disable", false, "Disable auto-scheduling instead of enabling it")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	service := cycle.NewService(database, database, database)
	tally, err := service.SetAutoSchedule(ctx, !scheduleDisable, cycle.Policy(schedulePolicy), time.Now())
	if err != nil {
		return err
	}

	if scheduleDisable {
		cmd.Println("Auto-scheduling disabled")
		return nil
	}
	cmd.Printf("Scheduled: %d, skipped: %d\n", tally.Scheduled, tally.Skipped)
	for _, issue := range tally.Issues {
		cmd.Printf("  issue: %s\n", issue)
	}
	return nil
}
