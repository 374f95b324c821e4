package commands

import (
	"fmt"
	"os"

	"ai-coder/config"
	"ai-coder/infra/database"
	"ai-coder/infra/logging"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/model"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	configPath string
	cfg        *config.AppConfig
	logger     *log.Logger
}

// NewRootCommand creates the coder-service command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "coder-service",
		Short:         "AI coding workspace backend",
		Long:          `coder-service serves the coding workspace API: sessions, model-backed interactions, code execution and formatting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.Log, cfg.ServerName)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultConfigFile, "path to the YAML config file")
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newMigrateCommand(a))
	rootCmd.AddCommand(newUserCommand(a))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDB connects and migrates the schema.
func (a *app) openDB() (*database.DB, error) {
	db, err := database.Open(a.cfg)
	if err != nil {
		return nil, err
	}
	if err := db.CreateTables(model.All()...); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
