package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/config"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

var (
	initAlgorithm string
	initChainName string
)

func init() {
	InitCmd.Flags().StringVar(&initAlgorithm, "algorithm", "ed25519", "Key algorithm: ed25519 or secp256k1")
	InitCmd.Flags().StringVar(&initChainName, "chain-name", "", "Chain name written to config.toml")
}

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config file and account key",
	Args:  cobra.NoArgs,
	RunE:  initialize,
}

func initialize(cmd *cobra.Command, args []string) error {
	configuration := config.DefaultConfig().SetRoot(rootDir)
	if initChainName != "" {
		configuration.ChainName = initChainName
	}
	if err := configuration.ValidateBasic(); err != nil {
		return err
	}
	if _, err := os.Stat(configuration.ConfigFile()); err == nil {
		return errors.Wrapf(sdkerr.ErrInvalidArgument, "%s already exists", configuration.ConfigFile())
	}
	if err := configuration.Save(); err != nil {
		return err
	}

	if _, err := os.Stat(configuration.KeyPath()); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Keeping existing key %s\n", configuration.KeyPath())
		return nil
	}
	pk, err := writeKeyFiles(filepath.Dir(configuration.KeyPath()), initAlgorithm)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\nAccount %s\n", rootDir, pk.Hex())
	return nil
}
