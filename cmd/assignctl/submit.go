package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/submit"
	"github.com/dalemusser/strataassign/internal/app/collab/restclient"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Expand a saved selection and post it to the collaborator API",
	RunE:  runSubmit,
}

func init() {
	addExpansionFlags(submitCmd)
	submitCmd.Flags().String("base-url", "", "Collaborator base URL (overrides STRATAASSIGN_COLLABORATOR_BASE_URL)")
	submitCmd.Flags().String("token", "", "Bearer token (overrides STRATAASSIGN_COLLABORATOR_TOKEN)")
	submitCmd.Flags().Duration("timeout", 30*time.Second, "Request timeout")
}

// flagOrEnv returns the flag value, falling back to the environment.
func flagOrEnv(cmd *cobra.Command, flag, env string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return os.Getenv(env)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	log := logger(cmd)
	defer func() { _ = log.Sync() }()

	mode, records, err := expansion(cmd)
	if err != nil {
		return explain(cmd, err)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	client, err := restclient.New(restclient.Config{
		BaseURL: flagOrEnv(cmd, "base-url", "STRATAASSIGN_COLLABORATOR_BASE_URL"),
		Token:   flagOrEnv(cmd, "token", "STRATAASSIGN_COLLABORATOR_TOKEN"),
		Timeout: timeout,
	}, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := submit.New(client, log).Submit(ctx, mode, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %d assignment(s)\n", out.Created)
	return nil
}
