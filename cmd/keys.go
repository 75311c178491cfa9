package cmd

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cep57"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const (
	secretKeyFile    = "secret_key.pem"
	publicKeyFile    = "public_key.pem"
	publicKeyHexFile = "public_key_hex"
)

var keygenAlgorithm string

func init() {
	KeygenCmd.Flags().StringVar(&keygenAlgorithm, "algorithm", "ed25519", "Key algorithm: ed25519 or secp256k1")
}

var KeygenCmd = &cobra.Command{
	Use:   "keygen <output-dir>",
	Short: "Generate a key pair and write it as PEM files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(filepath.Join(args[0], secretKeyFile)); err == nil {
			return errors.Wrapf(sdkerr.ErrInvalidArgument, "%s already holds a secret key", args[0])
		}
		pk, err := writeKeyFiles(args[0], keygenAlgorithm)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pk.Hex())
		return nil
	},
}

var AccountHashCmd = &cobra.Command{
	Use:   "account-hash <public-key>",
	Short: "Print the account hash key of a public key given as hex or PEM file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, err := publicKeyArg(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), globalstate.NewAccountHashKey(pk).String())
		return nil
	},
}

var ParseKeyCmd = &cobra.Command{
	Use:   "parse-key <public-key>",
	Short: "Describe a public key given as hex or PEM file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, err := publicKeyArg(args[0])
		if err != nil {
			return err
		}
		if err := crypto.CheckPubKey(pk); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Algorithm:    %s\n", pk.Algorithm)
		fmt.Fprintf(out, "Public key:   %s\n", pk.Hex())
		fmt.Fprintf(out, "Account hash: %s\n", globalstate.NewAccountHashKey(pk))
		return nil
	},
}

var ChecksumCmd = &cobra.Command{
	Use:   "checksum <hex>",
	Short: "Print hex in checksummed form, or check a mixed case input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cep57.Decode(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cep57.Encode(data))
		return nil
	},
}

type pemMarshaler interface {
	crypto.KeyPair
	MarshalPEM() ([]byte, error)
}

func generateKeyPair(algorithm string) (pemMarshaler, error) {
	switch strings.ToLower(algorithm) {
	case "ed25519":
		return crypto.GenerateEd25519()
	case "secp256k1":
		return crypto.GenerateSecp256k1()
	}
	return nil, errors.Wrapf(sdkerr.ErrInvalidArgument, "unknown algorithm %q", algorithm)
}

// writeKeyFiles writes the secret key, the public key and its tagged hex form
// into dir.
func writeKeyFiles(dir, algorithm string) (crypto.PublicKey, error) {
	kp, err := generateKeyPair(algorithm)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return crypto.PublicKey{}, err
	}
	secret, err := kp.MarshalPEM()
	if err != nil {
		return crypto.PublicKey{}, err
	}
	public, err := crypto.MarshalPublicKeyPEM(kp.PublicKey())
	if err != nil {
		return crypto.PublicKey{}, err
	}
	if err := ioutil.WriteFile(filepath.Join(dir, secretKeyFile), secret, 0600); err != nil {
		return crypto.PublicKey{}, err
	}
	if err := ioutil.WriteFile(filepath.Join(dir, publicKeyFile), public, 0644); err != nil {
		return crypto.PublicKey{}, err
	}
	hexKey := []byte(kp.PublicKey().Hex())
	if err := ioutil.WriteFile(filepath.Join(dir, publicKeyHexFile), hexKey, 0644); err != nil {
		return crypto.PublicKey{}, err
	}
	return kp.PublicKey(), nil
}

// publicKeyArg accepts a tagged hex public key or the path of a PEM file.
func publicKeyArg(arg string) (crypto.PublicKey, error) {
	if _, err := hex.DecodeString(arg); err == nil {
		return crypto.ParsePublicKeyHex(arg)
	}
	return crypto.LoadPublicKey(arg)
}
