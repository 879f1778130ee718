package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quacklibs/azdo/internal/config"
	"github.com/quacklibs/azdo/internal/timerange"
)

var (
	forUser   string
	since     string
	excelFile string
	verbose   bool

	orgURL         string
	defaultProject string
	userEmail      string
	pat            string
)

var rootCmd = &cobra.Command{
	Use:           "azdo",
	Short:         "A toolbox that makes working with Azure DevOps easier and quicker",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Overview of the work done in the last X days",
	Long: `Builds a chronological activity digest for one user: work-item changes
grouped per parent, plus the commits authored in every project's repositories.

The --since expression accepts fixed anchors (` + strings.Join(timerange.AcceptedForms()[:5], ", ") + `, ...),
relative periods like 3d or 2w, and dd-MM-yyyy or yyyy-MM-dd dates.`,
	RunE: runDaily,
}

var userCmd = &cobra.Command{
	Use:   "user <query>",
	Short: "Look up a user by (part of) a name or email address",
	Args:  cobra.ExactArgs(1),
	RunE:  runUser,
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store connection settings for this machine",
	RunE:  runConfigure,
}

var configureReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Show the stored settings",
	RunE:  runConfigureRead,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(configureCmd)
	configureCmd.AddCommand(configureReadCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	dailyCmd.Flags().StringVar(&forUser, "for", "", "Filter the report by person: an email address or (part of) a name.\nDefaults to the configured user email.")
	dailyCmd.Flags().StringVarP(&since, "since", "s", "lastworkday", "Start of the reporting window")
	dailyCmd.Flags().StringVar(&excelFile, "excel", "", "Also export the report to this xlsx file")

	_ = dailyCmd.RegisterFlagCompletionFunc("since", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return timerange.AcceptedForms(), cobra.ShellCompDirectiveNoFileComp
	})

	configureCmd.Flags().StringVar(&orgURL, "org", "", "Organization base URL, e.g. https://dev.azure.com/fabrikam")
	configureCmd.Flags().StringVar(&defaultProject, "project", "", "Default project")
	configureCmd.Flags().StringVar(&userEmail, "email", "", "Your email address, used as the default --for value")
	configureCmd.Flags().StringVar(&pat, "pat", "", "Personal access token")
}

// newLogger builds the slog logger the commands share; --verbose switches it
// to debug.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
