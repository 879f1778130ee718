package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quacklibs/azdo/internal/activity"
	"github.com/quacklibs/azdo/internal/azdevops"
	"github.com/quacklibs/azdo/internal/export"
	"github.com/quacklibs/azdo/internal/identity"
	"github.com/quacklibs/azdo/internal/render"
	"github.com/quacklibs/azdo/internal/timerange"
)

func runDaily(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	window, err := timerange.Resolve(since, time.Now())
	if err != nil {
		return err
	}

	logger := newLogger()
	client := azdevops.NewClient(cfg.OrganizationURL, cfg.PAT, logger)

	query := forUser
	if query == "" {
		query = cfg.UserEmail
	}

	resolver := identity.NewResolver(client, promptSelect)
	resolution, err := resolver.Resolve(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("resolving user %q: %w", query, err)
	}
	if !resolution.Found {
		fmt.Fprintf(os.Stderr, "Warning: no user found or selected for %q\n", resolution.Query)
		return nil
	}
	user := resolution.User

	fmt.Printf("\nusing %s\n\n", user.Email)

	bar := newSpinner("Querying projects")
	engine := activity.NewEngine(client, client, logger)
	report, err := engine.Run(cmd.Context(), user, window)
	finishBar(bar)
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(os.Stdout)

	summaries, err := activity.Aggregate(report)
	if errors.Is(err, activity.ErrNoActivity) {
		renderer.NoActivity()
		return nil
	}
	if err != nil {
		return err
	}

	renderer.Report(report, summaries)

	if excelFile != "" {
		if err := export.NewExcelExporter().Export(report, summaries, excelFile); err != nil {
			return fmt.Errorf("exporting excel report: %w", err)
		}
		fmt.Printf("\nReport saved to %s\n", excelFile)
	}

	return nil
}

func runUser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := azdevops.NewClient(cfg.OrganizationURL, cfg.PAT, newLogger())
	resolver := identity.NewResolver(client, promptSelect)

	resolution, err := resolver.Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !resolution.Found {
		fmt.Printf("No user found for %q\n", resolution.Query)
		return nil
	}

	fmt.Printf("%s\n  email: %s\n  id:    %s\n",
		resolution.User.DisplayName, resolution.User.Email, resolution.User.ID)
	return nil
}
