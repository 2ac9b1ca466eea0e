// Package cmd implements the folio command line.
//
// Configuration sources, highest priority first:
//
//  1. Command-line flags (--port, --content, ...)
//  2. FOLIO_<SECTION>_<KEY> environment variables (FOLIO_SERVER_PORT, ...)
//  3. The config file: --config, else FOLIO_CONFIG_FILE, else .folio.yml
//  4. Built-in defaults
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sooryaraj/folio/internal/config"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Serve and export a single-page portfolio",
	Long: `folio serves a single-page portfolio (hero, photo gallery, video gallery,
projects and a contact form) and exports it as static files.

The contact form never sends mail itself: it hands the visitor's mail
client a pre-filled mailto: link.

Quick Start:
  folio init                 Write .folio.yml and content.yml
  folio serve                Serve with live reload
  folio validate             Check content and asset files
  folio build                Export to ./dist
  folio mailto --name Ava --message "Hi"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .folio.yml, can also use FOLIO_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
}

// initConfig points viper at the config file and enables env overrides.
func initConfig() {
	explicit := true
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case os.Getenv("FOLIO_CONFIG_FILE") != "":
		viper.SetConfigFile(os.Getenv("FOLIO_CONFIG_FILE"))
	default:
		explicit = false
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".folio")
	}

	config.BindEnv(viper.GetViper())

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	case explicit || !errors.As(err, &notFound):
		fmt.Fprintln(os.Stderr, "Warning: cannot read config file:", err)
	}
}

// loadConfig binds the persistent flags and reads the configuration.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	all := map[string]string{
		"log-level":  "log-level",
		"log-format": "log-format",
	}
	for key, flag := range bindings {
		all[key] = flag
	}
	if err := bindFlags(cmd, all); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.LogFormat,
		Output: out,
	}), nil
}

// loadSite reads the configured content file, or the defaults.
func loadSite(cfg *config.Config) (*content.Site, error) {
	site, err := content.LoadFile(cfg.Site.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return site, nil
}
