package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"robot-registry/internal/model"
)

func (c *cli) statsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print robot counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.services()
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.Repository.GetStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(stats)
			}
			fmt.Fprintf(out, "total:    %d\nactive:   %d\narchived: %d\n", stats.Total, stats.Active, stats.Archived)
			for _, t := range model.RobotTypes {
				if n := stats.ByType[t]; n > 0 {
					fmt.Fprintf(out, "  %-12s %d\n", t, n)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the statistics as JSON")
	return cmd
}

func (c *cli) purgeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete every archived robot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("purge cannot be undone; pass --yes to confirm")
			}

			a, err := c.services()
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.Repository.PurgeArchived(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d archived robots\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the permanent deletion")
	return cmd
}
