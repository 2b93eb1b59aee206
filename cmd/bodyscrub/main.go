package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bodyscrub/bodyscrub/internal/config"
	"github.com/bodyscrub/bodyscrub/internal/logging"
	"github.com/bodyscrub/bodyscrub/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Problems {
				fmt.Fprintln(os.Stderr, msg)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// app carries the settings shared by every subcommand. Global flags are
// bound through viper so BODYSCRUB_CONFIG, BODYSCRUB_LOG_LEVEL,
// BODYSCRUB_LOG_FORMAT and BODYSCRUB_MODE work as well.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "bodyscrub",
		Short:         "Strip boilerplate from scraped article bodies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Path to config file (defaults built in when empty)")
	flags.String("log-level", "", "Override log level: debug|info|warn|error")
	flags.String("log-format", "", "Override log format: console|json")
	flags.String("mode", "", "Override mode: enforce|shadow")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("mode", flags.Lookup("mode"))
	a.v.SetEnvPrefix("BODYSCRUB")
	a.v.AutomaticEnv()

	root.AddCommand(newSanitizeCmd(a))
	root.AddCommand(newPatternsCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig reads the config file, applies global overrides, validates the
// result and configures process logging.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(a.v.GetString("config"))
	if err != nil {
		return nil, err
	}
	if level := a.v.GetString("log_level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := a.v.GetString("log_format"); format != "" {
		cfg.Logging.Format = format
	}
	if mode := a.v.GetString("mode"); mode != "" {
		cfg.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newService builds the service and attaches the record log when one is
// configured. The returned func closes the record log.
func newService(cfg *config.Config) (*service.Service, func() error, error) {
	svc, err := service.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	closer := func() error { return nil }
	if cfg.Logging.RecordLog != "" {
		records, closeLog, err := logging.OpenRecordLog(cfg.ResolvePath(cfg.Logging.RecordLog))
		if err != nil {
			return nil, nil, err
		}
		svc.SetRecordLogger(records)
		closer = closeLog
	}
	return svc, closer, nil
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a bodyscrub configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.v.GetString("config") == "" {
				return errors.New("config path is required")
			}
			if _, err := a.loadConfig(); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "config ok"); err != nil {
				return err
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "version=%s commit=%s buildDate=%s\n", version, commit, buildDate)
		},
	}
}
