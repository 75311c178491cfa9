package deploy

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cl"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const (
	expectedBodyHash = "fd303870519fc56064592c88DEF1F450504f17620ea1311B1b218931F93aF573"
	expectedHash     = "C438De9c20f121d42153dB4C11Ce0bCeeA1e9Cf992500B6B07dCE4Ff5056fBF3"
)

func publicKeyOf(t *testing.T, fill func(i int) byte) crypto.PublicKey {
	raw := make([]byte, crypto.Ed25519PublicKeySize)
	for i := range raw {
		raw[i] = fill(i)
	}
	pk, err := crypto.NewPublicKey(crypto.Ed25519, raw)
	require.NoError(t, err)
	return pk
}

func fixtureDeploy(t *testing.T) *Deploy {
	account := publicKeyOf(t, func(i int) byte { return byte(i) })
	target := publicKeyOf(t, func(int) byte { return 0xaa })

	payment, err := StandardPayment(big.NewInt(2500000000))
	require.NoError(t, err)
	id := uint64(7)
	session, err := NewTransfer(big.NewInt(1000000000), target, &id)
	require.NoError(t, err)

	ts, err := ParseTimestamp("2021-05-04T14:20:35.104Z")
	require.NoError(t, err)
	header := NewHeader(account, ts, 30*time.Minute, 1, "casper-test")
	d, err := New(header, payment, session)
	require.NoError(t, err)
	return d
}

func TestDeployHashes(t *testing.T) {
	d := fixtureDeploy(t)
	assert.Equal(t, expectedBodyHash, d.Header.BodyHash.String())
	assert.Equal(t, expectedHash, d.Hash.String())
	assert.Len(t, d.Header.Bytes(), 108)
	require.NoError(t, d.ValidateHashes())
	assert.Empty(t, d.Approvals)
}

func TestItemBytes(t *testing.T) {
	payment, err := StandardPayment(big.NewInt(2500000000))
	require.NoError(t, err)
	b, err := ItemBytes(payment)
	require.NoError(t, err)
	assert.Equal(t, "00000000000100000006000000616d6f756e74050000000400f9029508", hex.EncodeToString(b))

	b, err = ItemBytes(NewStoredContractByName("faucet", "call_faucet", nil))
	require.NoError(t, err)
	assert.Equal(t, "02060000006661756365740b00000063616c6c5f66617563657400000000", hex.EncodeToString(b))

	var hash Hash
	for i := range hash {
		hash[i] = 0x11
	}
	version := uint32(2)
	b, err = ItemBytes(&StoredVersionedContractByHash{Hash: hash, Version: &version, EntryPoint: "run"})
	require.NoError(t, err)
	assert.Equal(t, "03"+strings.Repeat("11", 32)+"01020000000300000072756e00000000", hex.EncodeToString(b))

	_, err = ItemBytes(nil)
	assert.True(t, errors.Is(err, sdkerr.ErrUnsupportedDeployItem))
	var empty *Transfer
	_, err = ItemBytes(empty)
	assert.True(t, errors.Is(err, sdkerr.ErrUnsupportedDeployItem))
}

func TestNewRejectsInvalidAccount(t *testing.T) {
	payment, err := StandardPayment(big.NewInt(1))
	require.NoError(t, err)
	session := &Transfer{}

	_, err = New(NewHeader(crypto.PublicKey{}, time.Now(), time.Hour, 1, "casper-test"), payment, session)
	assert.True(t, errors.Is(err, sdkerr.ErrInvalidArgument))

	short := crypto.PublicKey{Algorithm: crypto.Ed25519, Raw: []byte{1, 2, 3}}
	_, err = New(NewHeader(short, time.Now(), time.Hour, 1, "casper-test"), payment, session)
	assert.True(t, errors.Is(err, sdkerr.ErrFormat))
}

func TestSignAndVerify(t *testing.T) {
	d := fixtureDeploy(t)
	ed, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	secp, err := crypto.GenerateSecp256k1()
	require.NoError(t, err)

	require.NoError(t, d.Sign(ed))
	require.NoError(t, d.Sign(secp))
	require.NoError(t, d.Sign(ed))
	assert.Len(t, d.Approvals, 3)
	assert.NoError(t, d.VerifySignatures())
	assert.NoError(t, d.ValidateHashes())

	forged := d.Approvals[1]
	forged.Signer = ed.PublicKey()
	d.AddApproval(forged)
	err = d.VerifySignatures()
	assert.True(t, errors.Is(err, sdkerr.ErrSignatureVerification))
	assert.Contains(t, err.Error(), ed.PublicKey().Hex())
}

func TestTamperedDeployFailsValidation(t *testing.T) {
	d := fixtureDeploy(t)
	d.Header.ChainName = "casper"
	err := d.ValidateHashes()
	assert.True(t, errors.Is(err, sdkerr.ErrHashMismatch))
	assert.Contains(t, err.Error(), expectedHash)

	d = fixtureDeploy(t)
	d.Session.(*Transfer).Args[0].Value = cl.U512FromUint64(1)
	err = d.ValidateHashes()
	assert.True(t, errors.Is(err, sdkerr.ErrHashMismatch))
	assert.Contains(t, err.Error(), "body hash")
}

func TestDeployBytes(t *testing.T) {
	d := fixtureDeploy(t)
	unsigned, err := d.Bytes()
	require.NoError(t, err)

	kp, err := crypto.NewEd25519FromSeed(make([]byte, 32))
	require.NoError(t, err)
	require.NoError(t, d.Sign(kp))
	signed, err := d.Bytes()
	require.NoError(t, err)

	assert.Equal(t, len(unsigned)+33+65, len(signed))
	assert.Equal(t, d.Header.Bytes(), signed[:108])
	assert.Equal(t, d.Hash[:], signed[108:140])
	assert.Equal(t, []byte{1, 0, 0, 0}, signed[len(unsigned)-4:len(unsigned)])

	size, err := d.Size()
	require.NoError(t, err)
	assert.Equal(t, len(signed), size)
}

func TestDeployJSONRoundTrip(t *testing.T) {
	d := fixtureDeploy(t)
	kp, err := crypto.GenerateSecp256k1()
	require.NoError(t, err)
	require.NoError(t, d.Sign(kp))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2021-05-04T14:20:35.104Z"`)
	assert.Contains(t, string(data), `"ttl":"30m"`)
	assert.Contains(t, string(data), `"hash":"`+expectedHash+`"`)
	assert.Contains(t, string(data), `"session":{"Transfer":{"args":[["amount",`)

	var back Deploy
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d.Hash, back.Hash)
	require.NoError(t, back.ValidateHashes())
	require.NoError(t, back.VerifySignatures())

	original, err := d.Bytes()
	require.NoError(t, err)
	decoded, err := back.Bytes()
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestItemJSON(t *testing.T) {
	version := uint32(3)
	text, err := cl.String("v")
	require.NoError(t, err)
	items := []ExecutableDeployItem{
		&ModuleBytes{Module: []byte{0, 0x61, 0x73, 0x6d}, Args: Args{{Name: "x", Value: cl.I32(-1)}}},
		NewStoredContractByHash(Hash{1, 2, 3}, "go", nil),
		NewStoredContractByName("name", "entry", Args{{Name: "s", Value: text}}),
		&StoredVersionedContractByHash{Hash: Hash{9}, EntryPoint: "e"},
		&StoredVersionedContractByName{Name: "pkg", Version: &version, EntryPoint: "e"},
		&Transfer{},
	}
	for _, item := range items {
		data, err := MarshalItem(item)
		require.NoError(t, err)
		back, err := UnmarshalItem(data)
		require.NoError(t, err, string(data))
		want, err := ItemBytes(item)
		require.NoError(t, err)
		got, err := ItemBytes(back)
		require.NoError(t, err)
		assert.Equal(t, want, got, string(data))
	}
}

func TestUnsupportedItemJSON(t *testing.T) {
	for _, text := range []string{`{}`, `{"Wasm":{"args":[]}}`, `null`, `{"Transfer":{},"ModuleBytes":{}}`} {
		_, err := UnmarshalItem([]byte(text))
		assert.True(t, errors.Is(err, sdkerr.ErrUnsupportedDeployItem), text)
		if text != `null` {
			assert.Contains(t, err.Error(), text)
		}
	}
	_, err := MarshalItem(nil)
	assert.True(t, errors.Is(err, sdkerr.ErrUnsupportedDeployItem))
}

func TestArgsGet(t *testing.T) {
	d := fixtureDeploy(t)
	amount, ok := d.Session.RuntimeArgs().Get("amount")
	require.True(t, ok)
	assert.Equal(t, "1000000000", amount.Parsed().(*big.Int).String())
	_, ok = d.Session.RuntimeArgs().Get("missing")
	assert.False(t, ok)
}

func TestNewTransferWithoutID(t *testing.T) {
	tr, err := NewTransfer(big.NewInt(1), publicKeyOf(t, func(int) byte { return 1 }), nil)
	require.NoError(t, err)
	id, ok := tr.Args.Get("id")
	require.True(t, ok)
	assert.Equal(t, cl.Option{}, id.Parsed())
}
