// File path: cmd/xcgen/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/data/orchestrator"
)

var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	envFile     string
	debug       bool
	backend     string
	indexPath   string
	startChroma bool
}

func main() {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:           "xcgen",
		Short:         "Insurance QA test-case generator",
		Long:          "Generate insurance QA test cases from requirements, grounded on a vector index of historical test cases.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.debug {
				common.SetLevel("debug")
			}
			logger := common.Logger()
			if err := godotenv.Load(flags.envFile); err != nil {
				logger.Warn("xcgen: env file not loaded", "path", flags.envFile, "error", err)
			} else {
				logger.Info("xcgen: environment loaded", "path", flags.envFile)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file with API keys and settings")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "vector index backend: sqlite or chroma (default INDEX_BACKEND or sqlite)")
	rootCmd.PersistentFlags().StringVar(&flags.indexPath, "index", "", "path to the local sqlite index (default INDEX_PATH or data/index.db)")
	rootCmd.PersistentFlags().BoolVar(&flags.startChroma, "start-chroma", false, "launch a local chroma server for the chroma backend")

	rootCmd.AddCommand(newServeCommand(flags))
	rootCmd.AddCommand(newGenerateCommand(flags))
	rootCmd.AddCommand(newIndexCommand(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// orchestratorConfig resolves the index settings from the environment and
// overlays any flags given on the command line.
func (f *rootFlags) orchestratorConfig() (orchestrator.Config, error) {
	cfg, err := orchestrator.LoadConfig()
	if err != nil {
		return orchestrator.Config{}, err
	}
	if trimmed := strings.TrimSpace(f.backend); trimmed != "" {
		cfg.Backend = strings.ToLower(trimmed)
	}
	if trimmed := strings.TrimSpace(f.indexPath); trimmed != "" {
		cfg.IndexPath = trimmed
	}
	return cfg, nil
}
