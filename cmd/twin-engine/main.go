package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string

	rootCmd = &cobra.Command{
		Use:           "twin-engine",
		Short:         "Failure simulation engine for architecture digital twins",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadEnvFile(envFile)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file with MIRADOR_TWIN_* overrides")
	rootCmd.AddCommand(serveCmd, simulateCmd, blastCmd, injectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("twin-engine failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// loadEnvFile exports variables from path without overriding ones already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
