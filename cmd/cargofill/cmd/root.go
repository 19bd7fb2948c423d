package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/piwi3910/CargoFill/internal/project"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	verbose       bool
	configPath    string
	inventoryPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cargofill",
		Short: "3D container loading optimizer",
		Long: `Packs boxes into a container with extreme-point placement and a
parallel multi-start search over loading orders.

Examples:
  cargofill pack instance.txt                          # Pack a benchmark instance
  cargofill pack boxes.csv --preset "ISO 20ft" --pdf plan.pdf
  cargofill pack --container 10x10x10 --box 5x5x5x8    # Boxes given inline
  cargofill compare orders.json --order 42 --seed 7    # Compare search settings
  cargofill containers                                 # List container presets`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", project.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&opts.inventoryPath, "inventory", project.DefaultInventoryPath(), "container inventory file")

	rootCmd.AddCommand(newPackCmd(opts))
	rootCmd.AddCommand(newCompareCmd(opts))
	rootCmd.AddCommand(newContainersCmd(opts))
	rootCmd.AddCommand(newBackupCmd(opts))
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the app config, falling back to defaults when the file
// does not exist.
func (o *rootOptions) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadInventory reads the container inventory, creating the default one on
// first use.
func (o *rootOptions) loadInventory() (model.Inventory, error) {
	inv, err := project.LoadInventory(o.inventoryPath)
	if err != nil {
		return model.Inventory{}, fmt.Errorf("failed to load inventory: %w", err)
	}
	return inv, nil
}

// newLogger builds the text logger used by the commands. --verbose forces
// debug output; otherwise the config's log level applies.
func (o *rootOptions) newLogger(w io.Writer, cfg model.AppConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
