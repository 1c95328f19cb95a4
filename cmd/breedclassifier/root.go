package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cozy-creator/breed-classifier/cmd/breedclassifier/serve"
	"github.com/cozy-creator/breed-classifier/internal/app"
	"github.com/cozy-creator/breed-classifier/internal/config"
	"github.com/cozy-creator/breed-classifier/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use:   "breedclassifier",
	Short: "Dog breed classifier",
	Long:  "Downloads the dog breed model if needed and loads it. Use the serve subcommand to expose it over HTTP.",

	SilenceUsage: true,

	// Runs before this command and any subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		// Load config and env files
		if err := config.LoadEnvAndConfigFiles(); err != nil {
			return err
		}

		return nil
	},

	RunE: initializeOnly,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	Cmd.AddCommand(serve.Cmd)
	Cmd.CompletionOptions.HiddenDefaultCmd = true
}

func initializeOnly(cmd *cobra.Command, _ []string) error {
	a, err := app.NewApp(config.MustGetConfig())
	if err != nil {
		return err
	}

	rt, err := a.Initialize(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.GetLogger().Info("Initialization complete. Run with 'serve' to start the HTTP server.")
	return nil
}
