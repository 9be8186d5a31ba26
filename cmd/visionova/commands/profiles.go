package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DhanushPillay/VisioNova/pkg/config"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the configured detector profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry, err := config.NewRegistry(cfg.Detectors)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTIER\tWEIGHT\tACCURACY\tSPECIALTY")
		for _, p := range registry.Profiles() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
				p.ID, p.DisplayName, p.CostTier, p.ReliabilityWeight, p.Accuracy, p.Specialty)
		}
		return w.Flush()
	},
}
