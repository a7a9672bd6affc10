// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/exp/slog"

	"funkokeeper/internal/app/client"
	"funkokeeper/internal/app/client/config"
	"funkokeeper/internal/utils/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	cfg       *config.Config
	log       *slog.Logger
	debug     bool
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "funko",
	Short: "funko - клиент коллекции Funko Pop!",
	Long: `funko talks to a funkokeeper server and manages per-user collections
of Funko Pop! figures: add, list, read, update and remove.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Флаги командной строки важнее конфига
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	} else if level == "" {
		level = "warn"
	}

	log, err = logger.NewWithLevel(cfg.Env, level)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(client.WithApp(ctx, client.New(cfg, log)))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.funkokeeper/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log requests and responses")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "funkokeeper server address host:port")
}
