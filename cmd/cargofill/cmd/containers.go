package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/CargoFill/internal/project"
	"github.com/spf13/cobra"
)

func newContainersCmd(root *rootOptions) *cobra.Command {
	var importPath string

	c := &cobra.Command{
		Use:   "containers",
		Short: "List container presets",
		Long: `List the container presets in the inventory. With --import, presets
from another inventory file are merged in first (existing ids are kept).`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			inv, err := root.loadInventory()
			if err != nil {
				return err
			}

			if importPath != "" {
				merged, err := project.ImportInventory(importPath, inv)
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", importPath, err)
				}
				if err := project.SaveInventory(root.inventoryPath, merged); err != nil {
					return fmt.Errorf("failed to save inventory: %w", err)
				}
				inv = merged
			}

			tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tL x W x H (mm)\tVOLUME (m3)")
			for _, p := range inv.Containers {
				ct := p.ToContainer()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", p.ID, p.Name, ct, float64(ct.Volume())/1e9)
			}
			return tw.Flush()
		},
	}

	c.Flags().StringVar(&importPath, "import", "", "merge presets from an inventory JSON file")
	return c
}
