package cmd

import (
	"fmt"
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/deploy"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/motes"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

var (
	secretKey  string
	outputFile string
	inputFile  string

	transferAmount string
	transferTarget string
	transferID     uint64

	sessionName       string
	sessionHash       string
	sessionEntryPoint string
	sessionArgs       []string
	paymentCSPR       string

	listAccount string
)

func init() {
	for _, c := range []*cobra.Command{MakeTransferCmd, MakeDeployCmd, SignDeployCmd} {
		c.Flags().StringVar(&secretKey, "secret-key", "", "Secret key PEM file, defaults to key_file from config")
		c.Flags().StringVar(&outputFile, "output", "", "Write the deploy JSON to this file instead of stdout")
	}
	for _, c := range []*cobra.Command{SignDeployCmd, VerifyDeployCmd} {
		c.Flags().StringVar(&inputFile, "input", "", "Deploy JSON file")
		_ = c.MarkFlagRequired("input")
	}

	MakeTransferCmd.Flags().StringVar(&transferAmount, "amount", "", "Amount in "+motes.CoinName)
	MakeTransferCmd.Flags().StringVar(&transferTarget, "target", "", "Target account public key, hex or PEM file")
	MakeTransferCmd.Flags().Uint64Var(&transferID, "transfer-id", 0, "Optional transfer id")
	_ = MakeTransferCmd.MarkFlagRequired("amount")
	_ = MakeTransferCmd.MarkFlagRequired("target")

	MakeDeployCmd.Flags().StringVar(&sessionName, "session-name", "", "Name of the stored contract in the account's named keys")
	MakeDeployCmd.Flags().StringVar(&sessionHash, "session-hash", "", "Hash of the stored contract")
	MakeDeployCmd.Flags().StringVar(&sessionEntryPoint, "entry-point", "call", "Entry point to call")
	MakeDeployCmd.Flags().StringArrayVar(&sessionArgs, "arg", nil, "Runtime argument as name:type=value, repeatable")
	MakeDeployCmd.Flags().StringVar(&paymentCSPR, "payment", "", "Payment in "+motes.CoinName+", defaults to payment_amount from config")

	ListDeploysCmd.Flags().StringVar(&listAccount, "account", "", "Only list deploys sent from this public key")
}

var MakeTransferCmd = &cobra.Command{
	Use:   "make-transfer",
	Short: "Build, sign and store a native transfer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := motes.FromCSPR(transferAmount)
		if err != nil {
			return err
		}
		target, err := publicKeyArg(transferTarget)
		if err != nil {
			return err
		}
		var id *uint64
		if cmd.Flags().Changed("transfer-id") {
			id = &transferID
		}
		session, err := deploy.NewTransfer(amount, target, id)
		if err != nil {
			return err
		}
		return buildDeploy(cmd, nil, session)
	},
}

var MakeDeployCmd = &cobra.Command{
	Use:   "make-deploy",
	Short: "Build, sign and store a deploy calling a stored contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runtimeArgs, err := parseArgs(sessionArgs)
		if err != nil {
			return err
		}
		var session deploy.ExecutableDeployItem
		switch {
		case sessionName != "" && sessionHash != "":
			return errors.Wrap(sdkerr.ErrInvalidArgument, "use either --session-name or --session-hash")
		case sessionName != "":
			session = deploy.NewStoredContractByName(sessionName, sessionEntryPoint, runtimeArgs)
		case sessionHash != "":
			hash, err := deploy.ParseHash(sessionHash)
			if err != nil {
				return err
			}
			session = deploy.NewStoredContractByHash(hash, sessionEntryPoint, runtimeArgs)
		default:
			return errors.Wrap(sdkerr.ErrInvalidArgument, "one of --session-name or --session-hash is required")
		}

		var payment *big.Int
		if paymentCSPR != "" {
			if payment, err = motes.FromCSPR(paymentCSPR); err != nil {
				return err
			}
		}
		return buildDeploy(cmd, payment, session)
	},
}

// buildDeploy signs a deploy from the configured account and stores it. A nil
// payment uses the configured amount.
func buildDeploy(cmd *cobra.Command, payment *big.Int, session deploy.ExecutableDeployItem) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	kp, err := env.keyPair(secretKey)
	if err != nil {
		return err
	}
	if payment == nil {
		if payment, err = env.config.Payment(); err != nil {
			return err
		}
	}
	ttl, err := env.config.TTLDuration()
	if err != nil {
		return err
	}

	standardPayment, err := deploy.StandardPayment(payment)
	if err != nil {
		return err
	}
	header := deploy.NewHeader(kp.PublicKey(), time.Now(), ttl, env.config.GasPrice, env.config.ChainName)
	d, err := deploy.New(header, standardPayment, session)
	if err != nil {
		return err
	}
	if err := d.Sign(kp); err != nil {
		return err
	}
	return storeAndWrite(cmd, env, d)
}

func storeAndWrite(cmd *cobra.Command, env *environment, d *deploy.Deploy) error {
	s, err := env.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Put(d); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), outputFile, d)
}

var SignDeployCmd = &cobra.Command{
	Use:   "sign-deploy",
	Short: "Add an approval to a deploy and store it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		d, err := readDeploy(inputFile)
		if err != nil {
			return err
		}
		if err := d.ValidateHashes(); err != nil {
			return err
		}
		kp, err := env.keyPair(secretKey)
		if err != nil {
			return err
		}
		if err := d.Sign(kp); err != nil {
			return err
		}
		env.logger.Info("Signed deploy", "hash", d.Hash, "signer", kp.PublicKey())
		return storeAndWrite(cmd, env, d)
	},
}

var VerifyDeployCmd = &cobra.Command{
	Use:   "verify-deploy",
	Short: "Check the hashes and approvals of a deploy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := readDeploy(inputFile)
		if err != nil {
			return err
		}
		if err := d.ValidateHashes(); err != nil {
			return err
		}
		if err := d.VerifySignatures(); err != nil {
			return err
		}
		size, err := d.Size()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Deploy %s is valid\n", d.Hash)
		fmt.Fprintf(out, "Account:   %s\n", d.Header.Account)
		fmt.Fprintf(out, "Approvals: %d\n", len(d.Approvals))
		fmt.Fprintf(out, "Size:      %d bytes\n", size)
		if amount, ok := d.Session.RuntimeArgs().Get("amount"); ok {
			if motesAmount, ok := amount.Parsed().(*big.Int); ok {
				fmt.Fprintf(out, "Amount:    %s %s\n", motes.ToCSPR(motesAmount), motes.CoinName)
			}
		}
		if d.Header.Expired(time.Now()) {
			fmt.Fprintf(out, "Expired at %s\n", deploy.FormatTimestamp(d.Header.Timestamp.Add(d.Header.TTL)))
		}
		return nil
	},
}

var ListDeploysCmd = &cobra.Command{
	Use:   "list-deploys",
	Short: "List stored deploy hashes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		s, err := env.openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		var hashes []deploy.Hash
		if listAccount != "" {
			var account crypto.PublicKey
			if account, err = publicKeyArg(listAccount); err != nil {
				return err
			}
			hashes, err = s.ListByAccount(account)
		} else {
			hashes, err = s.List()
		}
		if err != nil {
			return err
		}
		for _, h := range hashes {
			fmt.Fprintln(cmd.OutOrStdout(), h)
		}
		return nil
	},
}

var GetDeployCmd = &cobra.Command{
	Use:   "get-deploy <hash>",
	Short: "Print a stored deploy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := storedDeploy(cmd, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), "", d)
	},
}

func storedDeploy(cmd *cobra.Command, hashText string) (*deploy.Deploy, error) {
	hash, err := deploy.ParseHash(hashText)
	if err != nil {
		return nil, err
	}
	env, err := loadEnvironment(cmd)
	if err != nil {
		return nil, err
	}
	s, err := env.openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Get(hash)
}
