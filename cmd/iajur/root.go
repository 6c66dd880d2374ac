package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/config"
	logpkg "github.com/kailas-cloud/iajur/internal/logger"
)

var (
	configPath string
	envName    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "iajur",
	Short:         "iajur answers legal questions over a vector search of technical notes",
	Long:          `iajur expands ambiguous legal terms, searches a vector index with several query variants and asks a language model for a structured answer grounded on the documents found.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "environment name (default $ENV or local)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func currentEnv() string {
	if envName != "" {
		return envName
	}
	return config.GetEnv()
}

// loadConfig reads .env, then the YAML configuration.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(currentEnv())
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logpkg.NewLogger(currentEnv(), level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}
