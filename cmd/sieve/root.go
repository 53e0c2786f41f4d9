package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:           "sieve",
		Short:         "Schema-driven validation and sanitization of untyped input",
		Long:          `Sieve checks JSON, YAML and form submissions against declarative schemas of rules and filters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadAppConfig(cmd, envFiles)
		},
	}
	cmd.PersistentFlags().StringArrayVar(&envFiles, "env-file", nil, "dotenv file to read before the environment, repeatable (default .env)")

	cmd.AddCommand(
		newValidateCmd(),
		newFormsCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return cmd
}
