package serve

import (
	"github.com/cozy-creator/breed-classifier/internal/app"
	"github.com/cozy-creator/breed-classifier/internal/config"
	"github.com/cozy-creator/breed-classifier/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the model and serve the classifier over HTTP",
	RunE:  runServe,
}

func init() {
	flags := Cmd.Flags()

	flags.Int("port", config.DefaultPort, "Port to run the server on")
	flags.String("host", config.DefaultHost, "Host to run the server on")
	flags.String("environment", "dev", "Environment configuration; affects logging and gin mode")
	flags.String("public-dir", config.DefaultPublicDir, "Directory served under /static")
	flags.Int("inference-workers", 1, "Number of predictions run concurrently")

	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("environment", flags.Lookup("environment"))
	viper.BindPFlag("public_dir", flags.Lookup("public-dir"))
	viper.BindPFlag("inference_workers", flags.Lookup("inference-workers"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.MustGetConfig()

	a, err := app.NewApp(cfg)
	if err != nil {
		return err
	}

	rt, err := a.Initialize(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.GetLogger().Info("Classifier started", zap.String("addr", cfg.Addr()))
	return rt.Serve(cmd.Context())
}
