package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"robot-registry/internal/transfer"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		archived bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every robot to a JSON export file",
		Long: `Write every active robot, or every robot with --archived, to a
versioned JSON envelope. Use "-o -" to print to standard output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.services()
			if err != nil {
				return err
			}
			defer a.Close()

			dest := output
			if dest == "" {
				dest = a.Config.Transfer.ExportFilename
			}
			if dest == "-" {
				env, err := a.Transfer.Export(cmd.Context(), archived)
				if err != nil {
					return err
				}
				_, err = env.WriteTo(cmd.OutOrStdout())
				return err
			}

			env, err := a.Transfer.ExportFile(cmd.Context(), dest, archived)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d robots to %s\n", env.Count, dest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived robots")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default transfer.export_filename)")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create robots from a JSON export file",
		Long: `Create a new robot for every record of the export file. Records whose
name already exists are counted as duplicates and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.services()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Transfer.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintf(out, "imported:   %d\nduplicates: %d\nerrors:     %d\n", result.Success, result.Duplicates, len(result.Errors))
			for _, ie := range result.Errors {
				fmt.Fprintf(out, "  robot %d: %s\n", ie.Index, ie.Error)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an export file without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			v := transfer.ValidateEnvelope(data)
			out := cmd.OutOrStdout()
			if v.Valid {
				fmt.Fprintf(out, "%s is a valid export file\n", args[0])
				return nil
			}
			for _, msg := range v.Errors {
				fmt.Fprintln(out, msg)
			}
			return errors.New("invalid export file")
		},
	}
}
