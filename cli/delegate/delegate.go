package delegate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/faheelsattar/bolt/cli/flags"
	cli_utils "github.com/faheelsattar/bolt/cli/utils"
	"github.com/faheelsattar/bolt/pkgs/crypto"
	"github.com/faheelsattar/bolt/pkgs/delegation"
	"github.com/faheelsattar/bolt/pkgs/keysource"
	"github.com/faheelsattar/bolt/pkgs/utils"
)

const signTimeout = 30 * time.Second

func init() {
	flags.SetDelegateFlags(Command)
}

// Command signs one delegation or revocation message per key held by the
// configured key source and writes the artifact file.
var Command = &cobra.Command{
	Use:   "delegate",
	Short: "Sign delegation or revocation messages for your validator keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli_utils.SetViperConfig(cmd); err != nil {
			return err
		}
		if err := flags.BindDelegateFlags(cmd); err != nil {
			return err
		}
		logger, err := cli_utils.SetGlobalLogger(flags.LogLevel, flags.LogFormat, flags.LogFilePath, "delegate")
		if err != nil {
			return err
		}

		chain, err := crypto.ChainByName(flags.Chain)
		if err != nil {
			return err
		}
		action, err := delegation.ParseAction(flags.Action)
		if err != nil {
			return err
		}
		delegatee, err := utils.HexToBLSPubKey(flags.DelegateePubkey)
		if err != nil {
			return fmt.Errorf("invalid delegatee pubkey: %w", err)
		}

		source, err := keysource.Config{
			SecretKeys:          flags.SecretKeys,
			KeystorePath:        flags.KeystorePath,
			KeystorePassword:    flags.KeystorePassword,
			KeystorePasswordDir: flags.KeystorePasswordDir,
			RemoteURL:           flags.RemoteURL,
			RemoteTLS: keysource.RemoteTLS{
				ClientCertPath: flags.RemoteClientCert,
				ClientKeyPath:  flags.RemoteClientKey,
				CACertPath:     flags.RemoteCACert,
			},
			RemotePassphrase: flags.RemotePassphrase,
		}.Select(logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), signTimeout)
		defer cancel()

		signed, err := delegation.Sign(ctx, logger, source, delegatee, chain, action)
		if err != nil {
			return err
		}
		if err := utils.WriteJSON(flags.OutputPath, signed); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		logger.Info("signed messages saved",
			zap.String("path", flags.OutputPath),
			zap.Int("count", len(signed)))
		fmt.Printf("Signed delegation messages generated and saved to %s\n", flags.OutputPath)
		return nil
	},
}
