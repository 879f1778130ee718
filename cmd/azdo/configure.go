package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quacklibs/azdo/internal/config"
	"github.com/quacklibs/azdo/internal/render"
)

func runConfigure(cmd *cobra.Command, args []string) error {
	if orgURL == "" && defaultProject == "" && userEmail == "" && pat == "" {
		return cmd.Help()
	}

	// start from the stored settings so one flag at a time works
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if orgURL != "" {
		cfg.OrganizationURL = orgURL
	}
	if defaultProject != "" {
		cfg.DefaultProject = defaultProject
	}
	if userEmail != "" {
		cfg.UserEmail = userEmail
	}
	if pat != "" {
		cfg.PAT = pat
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Printf("Settings saved to %s\n", path)
	return nil
}

func runConfigureRead(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	render.NewRenderer(os.Stdout).Table(cfg.DisplayRows())
	return nil
}
