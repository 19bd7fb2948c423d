package cmd

import (
	"fmt"

	"github.com/piwi3910/CargoFill/internal/project"
	"github.com/spf13/cobra"
)

func newBackupCmd(root *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the config and container inventory",
	}

	c.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write config and inventory to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			inv, err := root.loadInventory()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, inv); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Backup written to %s (%d container presets)\n", args[0], len(inv.Containers))
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "restore <file>",
		Short: "Replace config and inventory with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			backup, err := project.RestoreAllData(args[0], root.configPath, root.inventoryPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Restored backup from %s (version %s, created %s)\n",
				args[0], backup.Version, backup.CreatedAt)
			return nil
		},
	})

	return c
}
