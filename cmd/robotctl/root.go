package main

import (
	"os"

	"github.com/spf13/cobra"

	"robot-registry/config"
	"robot-registry/internal/app"
	"robot-registry/internal/logs"
)

// opener builds the services for a loaded configuration.
type opener func(*config.Config) (*app.App, error)

type cli struct {
	configPath string
	logLevel   string
	open       opener
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{open: open}

	rootCmd := &cobra.Command{
		Use:   "robotctl",
		Short: "Offline maintenance for the robot registry",
		Long: `robotctl works directly on the robot registry database:
export and import envelopes, check export files, print statistics
and purge archived robots.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.DefaultPath,
		"path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "",
		"override logging.level from the configuration")

	rootCmd.AddCommand(
		c.exportCmd(),
		c.importCmd(),
		c.validateCmd(),
		c.statsCmd(),
		c.purgeCmd(),
	)
	return rootCmd
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	logs.Init(logs.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})
	return cfg, nil
}

func (c *cli) services() (*app.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.open(cfg)
}
