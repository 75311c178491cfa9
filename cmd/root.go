package cmd

import (
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	tmconfig "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/config"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/deploy"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/store"
)

var rootDir string

func init() {
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(KeygenCmd)
	RootCmd.AddCommand(AccountHashCmd)
	RootCmd.AddCommand(ParseKeyCmd)
	RootCmd.AddCommand(ChecksumCmd)
	RootCmd.AddCommand(MakeTransferCmd)
	RootCmd.AddCommand(MakeDeployCmd)
	RootCmd.AddCommand(SignDeployCmd)
	RootCmd.AddCommand(VerifyDeployCmd)
	RootCmd.AddCommand(ListDeploysCmd)
	RootCmd.AddCommand(GetDeployCmd)
	RootCmd.AddCommand(PutDeployRequestCmd)
	RootCmd.AddCommand(QueryStateRequestCmd)
	RootCmd.PersistentFlags().StringVar(&rootDir, "home", "./casperhome", "Home directory holding config.toml, keys and stored deploys")
}

var RootCmd = cobra.Command{
	Use:          "casper-client",
	Short:        "Build, sign and inspect Casper deploys",
	SilenceUsage: true,
}

type environment struct {
	config *config.Config
	root   log.Logger
	logger log.Logger
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	configuration, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
	logger, err = flags.ParseLogLevel(configuration.LogLevel, logger, tmconfig.DefaultLogLevel())
	if err != nil {
		return nil, err
	}
	return &environment{config: configuration, root: logger, logger: logger.With("module", "main")}, nil
}

func (env *environment) openStore() (*store.DeployStore, error) {
	return store.Open(env.config.StorePath(), env.root.With("module", "store"))
}

func (env *environment) keyPair(override string) (crypto.KeyPair, error) {
	path := env.config.KeyPath()
	if override != "" {
		path = override
	}
	return crypto.LoadKeyPair(path)
}

func readDeploy(path string) (*deploy.Deploy, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := new(deploy.Deploy)
	if err := json.Unmarshal(data, d); err != nil {
		return nil, errors.Wrapf(err, "decode deploy %s", path)
	}
	return d, nil
}

// writeJSON writes v to path, or to out when path is empty.
func writeJSON(out io.Writer, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = out.Write(data)
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}
