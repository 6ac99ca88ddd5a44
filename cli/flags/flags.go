package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag names.
const (
	logLevel    = "logLevel"
	logFormat   = "logFormat"
	logFilePath = "logFilePath"

	delegateePubkey = "delegatee-pubkey"
	chain           = "chain"
	action          = "action"
	outputPath      = "out"

	secretKeys          = "secret-keys"
	keystorePath        = "keystore-path"
	keystorePassword    = "keystore-password"
	keystorePasswordDir = "keystore-password-dir"
	remoteURL           = "remote-url"
	remoteClientCert    = "remote-client-cert"
	remoteClientKey     = "remote-client-key"
	remoteCACert        = "remote-ca-cert"
	remotePassphrase    = "remote-passphrase"

	delegationsPath = "delegations-path"
)

// base flags
var (
	LogLevel    string
	LogFormat   string
	LogFilePath string
)

// delegate flags
var (
	DelegateePubkey string
	Chain           string
	Action          string
	OutputPath      string

	SecretKeys          []string
	KeystorePath        string
	KeystorePassword    string
	KeystorePasswordDir string
	RemoteURL           string
	RemoteClientCert    string
	RemoteClientKey     string
	RemoteCACert        string
	RemotePassphrase    string
)

// verify flags
var (
	DelegationsPath string
)

func SetBaseFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(logLevel, "info", "Logging level: debug, info, warn, error")
	cmd.PersistentFlags().String(logFormat, "console", "Logging output format: console or json")
	cmd.PersistentFlags().String(logFilePath, "", "Optional path to a log file")
}

// BindBaseFlags binds base flags to yaml config parameters.
func BindBaseFlags(cmd *cobra.Command) error {
	for _, name := range []string{logLevel, logFormat, logFilePath} {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	LogLevel = viper.GetString(logLevel)
	LogFormat = viper.GetString(logFormat)
	LogFilePath = viper.GetString(logFilePath)
	return nil
}

func SetDelegateFlags(cmd *cobra.Command) {
	SetBaseFlags(cmd)
	cmd.PersistentFlags().String(delegateePubkey, "", "BLS public key to delegate signing authority to (hex)")
	cmd.PersistentFlags().String(chain, "mainnet", "Target chain: mainnet, holesky, helder or kurtosis")
	cmd.PersistentFlags().String(action, "delegate", "Message action: delegate or revoke")
	cmd.PersistentFlags().String(outputPath, "delegations.json", "Path of the signed messages output file")
	cmd.PersistentFlags().StringSlice(secretKeys, nil, "Raw hex BLS secret keys to sign with")
	cmd.PersistentFlags().String(keystorePath, "", "Path to a directory of EIP-2335 keystore files")
	cmd.PersistentFlags().String(keystorePassword, "", "Password shared by all keystore entries")
	cmd.PersistentFlags().String(keystorePasswordDir, "", "Directory of per-pubkey keystore password files")
	cmd.PersistentFlags().String(remoteURL, "", "URL of a remote signing service")
	cmd.PersistentFlags().String(remoteClientCert, "", "Client TLS certificate for the remote signer")
	cmd.PersistentFlags().String(remoteClientKey, "", "Client TLS key for the remote signer")
	cmd.PersistentFlags().String(remoteCACert, "", "CA certificate of the remote signer")
	cmd.PersistentFlags().String(remotePassphrase, "", "Wallet passphrase reference for the remote signer")
}

// BindDelegateFlags binds delegate flags to yaml config parameters.
func BindDelegateFlags(cmd *cobra.Command) error {
	if err := BindBaseFlags(cmd); err != nil {
		return err
	}
	names := []string{
		delegateePubkey, chain, action, outputPath,
		secretKeys, keystorePath, keystorePassword, keystorePasswordDir,
		remoteURL, remoteClientCert, remoteClientKey, remoteCACert, remotePassphrase,
	}
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	DelegateePubkey = viper.GetString(delegateePubkey)
	Chain = viper.GetString(chain)
	Action = viper.GetString(action)
	OutputPath = viper.GetString(outputPath)
	SecretKeys = viper.GetStringSlice(secretKeys)
	KeystorePath = viper.GetString(keystorePath)
	KeystorePassword = viper.GetString(keystorePassword)
	KeystorePasswordDir = viper.GetString(keystorePasswordDir)
	RemoteURL = viper.GetString(remoteURL)
	RemoteClientCert = viper.GetString(remoteClientCert)
	RemoteClientKey = viper.GetString(remoteClientKey)
	RemoteCACert = viper.GetString(remoteCACert)
	RemotePassphrase = viper.GetString(remotePassphrase)
	return nil
}

func SetVerifyFlags(cmd *cobra.Command) {
	SetBaseFlags(cmd)
	cmd.PersistentFlags().String(delegationsPath, "", "Path to the signed delegations file")
	cmd.PersistentFlags().String(chain, "mainnet", "Target chain: mainnet, holesky, helder or kurtosis")
}

// BindVerifyFlags binds verify flags to yaml config parameters.
func BindVerifyFlags(cmd *cobra.Command) error {
	if err := BindBaseFlags(cmd); err != nil {
		return err
	}
	for _, name := range []string{delegationsPath, chain} {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	DelegationsPath = viper.GetString(delegationsPath)
	Chain = viper.GetString(chain)
	return nil
}
