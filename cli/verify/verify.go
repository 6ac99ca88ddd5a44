package verify

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/aquasecurity/table"
	"github.com/spf13/cobra"

	"github.com/faheelsattar/bolt/cli/flags"
	cli_utils "github.com/faheelsattar/bolt/cli/utils"
	"github.com/faheelsattar/bolt/pkgs/crypto"
	"github.com/faheelsattar/bolt/pkgs/delegation"
	"github.com/faheelsattar/bolt/pkgs/store"
)

func init() {
	flags.SetVerifyFlags(Command)
}

// Command loads a delegations file through the same verifier the signing
// agent uses at startup and reports the resulting delegation set.
var Command = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signed delegations file and print the active delegation set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli_utils.SetViperConfig(cmd); err != nil {
			return err
		}
		if err := flags.BindVerifyFlags(cmd); err != nil {
			return err
		}
		logger, err := cli_utils.SetGlobalLogger(flags.LogLevel, flags.LogFormat, flags.LogFilePath, "verify")
		if err != nil {
			return err
		}

		chain, err := crypto.ChainByName(flags.Chain)
		if err != nil {
			return err
		}
		if flags.DelegationsPath == "" {
			return fmt.Errorf("delegations-path is required")
		}

		s, err := store.LoadFile(logger, delegation.NewVerifier(chain), flags.DelegationsPath)
		if err != nil {
			return err
		}

		t := table.New(os.Stdout)
		t.SetHeaders("Validator", "Delegatee")
		for _, entry := range s.Delegations() {
			t.AddRow(hex.EncodeToString(entry.ValidatorPubKey), hex.EncodeToString(entry.DelegateePubKey))
		}
		t.Render()

		if s.Len() == 0 {
			return fmt.Errorf("no valid delegations found in %s", flags.DelegationsPath)
		}
		return nil
	},
}
