package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"twentyq-server/internal/app"
	"twentyq-server/internal/config"
	"twentyq-server/internal/log"
)

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:           "twentyq-server",
		Short:         "Session server for a 20-questions style deduction party game.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, configPath, overrides)
		},
	}

	defaults := config.Default()
	fs := cmd.Flags()
	fs.StringVarP(&configPath, "config", "c", "", "path to config file")
	fs.IntVarP(&overrides.Port, "port", "p", defaults.Port, "port to listen on (env: PORT)")
	fs.StringVar(&overrides.StaticDir, "static-dir", defaults.StaticDir, "directory with the game UI, served at /")
	fs.StringVar(&overrides.LogLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&overrides.MsgRateLimit, "msg-rate-limit", defaults.MsgRateLimit, "max inbound frames per connection per minute, 0 disables")

	return cmd
}

func run(cmd *cobra.Command, configPath string, overrides config.Config) error {
	bootLog := log.New("info")

	cfg, _, err := config.Load(bootLog, configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over file and environment.
	fs := cmd.Flags()
	if fs.Changed("port") {
		cfg.Port = overrides.Port
	}
	if fs.Changed("static-dir") {
		cfg.StaticDir = overrides.StaticDir
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = overrides.LogLevel
	}
	if fs.Changed("msg-rate-limit") {
		cfg.MsgRateLimit = overrides.MsgRateLimit
	}

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", cfg.Addr()).Msg("starting twentyq server")
	if err := app.New(cfg, logger).Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
