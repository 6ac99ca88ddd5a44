package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/faheelsattar/bolt/cli/delegate"
	"github.com/faheelsattar/bolt/cli/verify"
)

func init() {
	RootCmd.AddCommand(delegate.Command)
	RootCmd.AddCommand(verify.Command)
	RootCmd.PersistentFlags().String("configYAML", "", "Path to a yaml config file")
}

// RootCmd represents the root command of the delegations CLI
var RootCmd = &cobra.Command{
	Use:   "bolt-delegate",
	Short: "CLI for delegating commitment signing authority to a delegatee key",
}

// Execute executes the root command
func Execute(appName, version string) {
	RootCmd.Short = appName
	RootCmd.Version = version

	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("failed to execute root command: %v", err)
	}
}
