// Package cli is the draftctl command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/config"
	"github.com/DoyleJ11/hoops-draft-client/internal/logging"
)

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	envFile string
	mode    string
	cfg     config.Config
	logger  *zap.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "draftctl",
		Short: "Headless client for live NBA head-to-head drafts",
		Long: `draftctl joins a draft session as host or guest, keeps the live channel
open across reconnects, and evaluates player eligibility for the current
constraint.

Settings come from DRAFT_* environment variables, optionally loaded from
a .env file. Flags override them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "Env file to load before reading DRAFT_* variables")
	flags.String("api", "", "Backend API URL (env: DRAFT_API_URL)")
	flags.String("token", "", "Bearer token (env: DRAFT_TOKEN)")
	flags.String("log-level", "", "Log level (env: DRAFT_LOG_LEVEL)")
	flags.Bool("dev", false, "Human-readable logs (env: DRAFT_DEV)")
	flags.StringVar(&a.mode, "mode", "", "Session mode: auto, local or networked (env: DRAFT_MODE)")

	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newTeamsCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if v, _ := flags.GetString("api"); flags.Changed("api") {
		cfg.APIURL = v
		// A socket URL derived from the env API URL follows the flag; an
		// explicit DRAFT_WS_URL is kept.
		if os.Getenv("DRAFT_WS_URL") == "" {
			cfg.WSURL = ""
		}
	}
	if v, _ := flags.GetString("token"); flags.Changed("token") {
		cfg.Token = v
	}
	if v, _ := flags.GetString("log-level"); flags.Changed("log-level") {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetBool("dev"); flags.Changed("dev") {
		cfg.Dev = v
	}
	if flags.Changed("mode") {
		cfg.Mode = a.mode
	}
	if err := cfg.Finish(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
