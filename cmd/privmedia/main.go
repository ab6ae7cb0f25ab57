package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/privmedia/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "privmedia",
	Short:   "Permission-gated private media server",
	Long: `privmedia serves files from a private directory to callers that are
allowed to read them. Denied and missing files look the same in production.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg.Env, cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file paths, merged left to right (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (env: PRIVMEDIA_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (env: PRIVMEDIA_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-path", "", "private storage directory (env: PRIVMEDIA_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("users", "", "user backend: static, database (env: PRIVMEDIA_USERS_BACKEND)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: PRIVMEDIA_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("url-prefix", "", "URL prefix private files are served under (env: PRIVMEDIA_SERVER_URL_PREFIX)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
