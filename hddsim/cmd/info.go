package cmd

import (
	"github.com/spf13/cobra"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the disk parameters and the latency of basic operations.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := buildDisk(cmd)
			if err != nil {
				return err
			}

			printGeometry(cmd.OutOrStdout(), d)
			printStandardTests(cmd.OutOrStdout(), d)

			return nil
		},
	}
}
