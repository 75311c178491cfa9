package cmd

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/deploy"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/messages"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

var (
	requestID      uint64
	stateRootHash  string
	stateBlockHash string
	queryPath      string
)

func init() {
	for _, c := range []*cobra.Command{PutDeployRequestCmd, QueryStateRequestCmd} {
		c.Flags().Uint64Var(&requestID, "id", 1, "JSON-RPC request id")
	}
	QueryStateRequestCmd.Flags().StringVar(&stateRootHash, "state-root-hash", "", "Query against this state root hash")
	QueryStateRequestCmd.Flags().StringVar(&stateBlockHash, "block-hash", "", "Query against the state of this block")
	QueryStateRequestCmd.Flags().StringVar(&queryPath, "path", "", "Slash separated named key path below the key")
}

var PutDeployRequestCmd = &cobra.Command{
	Use:   "put-deploy-request <hash>",
	Short: "Print the account_put_deploy request for a stored deploy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := storedDeploy(cmd, args[0])
		if err != nil {
			return err
		}
		if err := d.VerifySignatures(); err != nil {
			return err
		}
		if len(d.Approvals) == 0 {
			return errors.Wrapf(sdkerr.ErrInvalidArgument, "deploy %s has no approvals", d.Hash)
		}
		return writeJSON(cmd.OutOrStdout(), "", messages.NewPutDeployRequest(requestID, d))
	},
}

var QueryStateRequestCmd = &cobra.Command{
	Use:   "query-state-request <key>",
	Short: "Print the query_global_state request for a formatted key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := globalstate.FromString(args[0])
		if err != nil {
			return err
		}
		state, err := stateIdentifier()
		if err != nil {
			return err
		}
		var path []string
		if queryPath != "" {
			path = strings.Split(strings.Trim(queryPath, "/"), "/")
		}
		return writeJSON(cmd.OutOrStdout(), "", messages.NewQueryGlobalStateRequest(requestID, state, key, path...))
	},
}

func stateIdentifier() (messages.StateIdentifier, error) {
	switch {
	case stateRootHash != "" && stateBlockHash != "":
		return messages.StateIdentifier{}, errors.Wrap(sdkerr.ErrInvalidArgument, "use either --state-root-hash or --block-hash")
	case stateRootHash != "":
		hash, err := deploy.ParseHash(stateRootHash)
		return messages.StateIdentifier{Type: messages.StateRootHash, Hash: hash}, err
	case stateBlockHash != "":
		hash, err := deploy.ParseHash(stateBlockHash)
		return messages.StateIdentifier{Type: messages.BlockHash, Hash: hash}, err
	}
	return messages.StateIdentifier{}, errors.Wrap(sdkerr.ErrInvalidArgument, "one of --state-root-hash or --block-hash is required")
}
