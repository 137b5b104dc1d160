package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SpeedsterCollective/Tweeks/internal/config"
	"github.com/SpeedsterCollective/Tweeks/internal/database"
	"github.com/SpeedsterCollective/Tweeks/internal/reporter"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report [day|week|month]",
	Short: "Show recorded playtime per target",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output machine-readable JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	periodType := "day"
	if len(args) > 0 {
		periodType = args[0]
	}

	cfg := config.New()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := database.NewRepository(db)
	rep := reporter.New(cfg, repo)

	report, err := rep.GenerateReport(periodType)
	if err != nil {
		return err
	}

	if reportJSON {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			return err
		}
		fmt.Println(jsonStr)
		return nil
	}

	fmt.Println(rep.FormatReportText(report))
	return nil
}
