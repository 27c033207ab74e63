package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Print the assignment records a saved selection expands to",
	Long: `Expand a selection document offline and print the records as JSON.

Nothing is submitted. Validation failures are listed field by field.`,
	RunE: runExpand,
}

func init() {
	addExpansionFlags(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	_, records, err := expansion(cmd)
	if err != nil {
		return explain(cmd, err)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// explain prints validation failures one per line before returning err.
func explain(cmd *cobra.Command, err error) error {
	var verrs expand.ValidationErrors
	if errors.As(err, &verrs) {
		for _, f := range verrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f.Field, f.Message)
		}
	}
	return err
}
