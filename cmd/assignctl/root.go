package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "assignctl",
	Short: "Operator tool for the assignment wizard",
	Long: `assignctl expands saved wizard selections offline, posts them to the
collaborator API, and seeds a MongoDB catalog for local development.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(seedCmd)
}

// logger returns a development logger with --verbose, otherwise a no-op.
func logger(cmd *cobra.Command) *zap.Logger {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		if l, err := zap.NewDevelopment(); err == nil {
			return l
		}
	}
	return zap.NewNop()
}
