package cmd

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cl"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

func execute(t *testing.T, args ...string) (string, error) {
	out := new(bytes.Buffer)
	RootCmd.SetOut(out)
	RootCmd.SetErr(ioutil.Discard)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func tempHome(t *testing.T) string {
	dir, err := ioutil.TempDir("", "casper-cmd")
	require.NoError(t, err)
	return dir
}

func TestDeployWorkflow(t *testing.T) {
	home := tempHome(t)
	defer os.RemoveAll(home)

	_, err := execute(t, "init", "--home", home, "--chain-name", "casper-net-1", "--algorithm", "secp256k1")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "config.toml"))
	kp, err := crypto.LoadKeyPair(filepath.Join(home, "secret_key.pem"))
	require.NoError(t, err)
	assert.Equal(t, crypto.Secp256k1, kp.PublicKey().Algorithm)

	_, err = execute(t, "init", "--home", home)
	assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument))

	target, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	deployFile := filepath.Join(home, "transfer.json")
	_, err = execute(t, "make-transfer", "--home", home, "--amount", "2.5", "--target", target.PublicKey().Hex(),
		"--transfer-id", "9", "--secret-key", "", "--output", deployFile)
	require.NoError(t, err)

	d, err := readDeploy(deployFile)
	require.NoError(t, err)
	require.NoError(t, d.ValidateHashes())
	require.NoError(t, d.VerifySignatures())
	assert.Equal(t, "casper-net-1", d.Header.ChainName)
	assert.True(t, kp.PublicKey().Equal(d.Header.Account))
	amount, ok := d.Session.RuntimeArgs().Get("amount")
	require.True(t, ok)
	assert.Equal(t, big.NewInt(2500000000), amount.Parsed())
	id, ok := d.Session.RuntimeArgs().Get("id")
	require.True(t, ok)
	assert.Equal(t, cl.Option{IsSome: true, Value: uint64(9)}, id.Parsed())

	out, err := execute(t, "verify-deploy", "--home", home, "--input", deployFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Deploy "+d.Hash.String()+" is valid")
	assert.Contains(t, out, "2.5 CSPR")

	second, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	secondKey := filepath.Join(home, "second.pem")
	secondPEM, err := second.MarshalPEM()
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(secondKey, secondPEM, 0600))
	_, err = execute(t, "sign-deploy", "--home", home, "--input", deployFile, "--secret-key", secondKey, "--output", deployFile)
	require.NoError(t, err)

	out, err = execute(t, "list-deploys", "--home", home, "--account", "")
	require.NoError(t, err)
	assert.Equal(t, d.Hash.String()+"\n", out)
	out, err = execute(t, "list-deploys", "--home", home, "--account", target.PublicKey().Hex())
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, "get-deploy", "--home", home, d.Hash.String())
	require.NoError(t, err)
	assert.Contains(t, out, second.PublicKey().Hex())

	out, err = execute(t, "put-deploy-request", "--home", home, "--id", "3", d.Hash.String())
	require.NoError(t, err)
	var request struct {
		ID     uint64 `json:"id"`
		Method string `json:"method"`
		Params struct {
			Deploy json.RawMessage `json:"deploy"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &request))
	assert.Equal(t, uint64(3), request.ID)
	assert.Equal(t, "account_put_deploy", request.Method)
	assert.Contains(t, string(request.Params.Deploy), `"approvals"`)
}

func TestVerifyTamperedDeploy(t *testing.T) {
	home := tempHome(t)
	defer os.RemoveAll(home)

	_, err := execute(t, "init", "--home", home)
	require.NoError(t, err)
	deployFile := filepath.Join(home, "deploy.json")
	_, err = execute(t, "make-deploy", "--home", home, "--session-name", "faucet", "--entry-point", "call_faucet",
		"--arg", "n:U32=5", "--payment", "3", "--secret-key", "", "--output", deployFile)
	require.NoError(t, err)

	data, err := ioutil.ReadFile(deployFile)
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(deployFile, bytes.Replace(data, []byte("call_faucet"), []byte("drain"), 1), 0644))
	_, err = execute(t, "verify-deploy", "--home", home, "--input", deployFile)
	assert.True(t, errors.Is(err, sdkerr.ErrHashMismatch))

	_, err = execute(t, "make-deploy", "--home", home, "--session-name", "a", "--session-hash", strings.Repeat("00", 32), "--output", deployFile)
	assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument))
}

func TestKeyCommands(t *testing.T) {
	dir := tempHome(t)
	defer os.RemoveAll(dir)

	out, err := execute(t, "keygen", dir, "--algorithm", "ed25519")
	require.NoError(t, err)
	pk, err := crypto.ParsePublicKeyHex(strings.TrimSpace(out))
	require.NoError(t, err)

	fromPEM, err := crypto.LoadPublicKey(filepath.Join(dir, publicKeyFile))
	require.NoError(t, err)
	assert.True(t, pk.Equal(fromPEM))

	_, err = execute(t, "keygen", dir)
	assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument))

	want := globalstate.NewAccountHashKey(pk).String() + "\n"
	out, err = execute(t, "account-hash", pk.Hex())
	require.NoError(t, err)
	assert.Equal(t, want, out)
	out, err = execute(t, "account-hash", filepath.Join(dir, publicKeyFile))
	require.NoError(t, err)
	assert.Equal(t, want, out)

	out, err = execute(t, "parse-key", pk.Hex())
	require.NoError(t, err)
	assert.Contains(t, out, "Algorithm:    ed25519\n")
	assert.Contains(t, out, strings.TrimSpace(want))

	out, err = execute(t, "checksum", "fd303870519fc56064592c88def1f450504f17620ea1311b1b218931f93af573")
	require.NoError(t, err)
	assert.Equal(t, "fd303870519fc56064592c88DEF1F450504f17620ea1311B1b218931F93aF573\n", out)
	_, err = execute(t, "checksum", "FD303870519fc56064592c88DEF1F450504f17620ea1311B1b218931F93aF573")
	assert.True(t, errors.Is(err, sdkerr.ErrChecksumMismatch))
}

func TestQueryStateRequest(t *testing.T) {
	root := strings.Repeat("ab", 32)
	out, err := execute(t, "query-state-request", "hash-"+strings.Repeat("01", 32), "--state-root-hash", root, "--block-hash", "", "--path", "counter/count", "--id", "4")
	require.NoError(t, err)
	assert.Contains(t, out, `"query_global_state"`)
	assert.Contains(t, out, `"StateRootHash"`)
	assert.Contains(t, out, `"counter",`)

	_, err = execute(t, "query-state-request", "hash-"+strings.Repeat("01", 32), "--state-root-hash", "", "--block-hash", "")
	assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument))
}

func TestParseArg(t *testing.T) {
	arg, err := parseArg("amount:U512=2500000000")
	require.NoError(t, err)
	assert.Equal(t, "amount", arg.Name)
	assert.Equal(t, big.NewInt(2500000000), arg.Value.Parsed())

	arg, err = parseArg("greeting:String=hello=world")
	require.NoError(t, err)
	assert.Equal(t, "hello=world", arg.Value.Parsed())

	arg, err = parseArg(`flags:{"List":"Bool"}=[true,false]`)
	require.NoError(t, err)
	assert.True(t, cl.ListOf(cl.BoolType).Equal(arg.Value.Type()))

	arg, err = parseArg(`maybe:{"Option":"U8"}=null`)
	require.NoError(t, err)
	assert.Equal(t, cl.Option{}, arg.Value.Parsed())

	for _, text := range []string{"novalue", ":U8=1", "x:=1", "x:U8=300", "x:Nope=1"} {
		_, err := parseArg(text)
		assert.Error(t, err, text)
	}
}
