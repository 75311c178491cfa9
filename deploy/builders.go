package deploy

import (
	"math/big"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cl"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
)

// StandardPayment pays amount motes from the account's main purse using the
// system payment code (empty module bytes).
func StandardPayment(amount *big.Int) (*ModuleBytes, error) {
	value, err := cl.U512(amount)
	if err != nil {
		return nil, err
	}
	return &ModuleBytes{Module: []byte{}, Args: Args{{Name: "amount", Value: value}}}, nil
}

// NewTransfer moves amount motes to target. A nil id leaves the transfer
// untagged.
func NewTransfer(amount *big.Int, target crypto.PublicKey, id *uint64) (*Transfer, error) {
	value, err := cl.U512(amount)
	if err != nil {
		return nil, err
	}
	idValue, err := cl.None(cl.U64Type)
	if id != nil {
		idValue, err = cl.Some(cl.U64(*id))
	}
	if err != nil {
		return nil, err
	}
	return &Transfer{Args: Args{
		{Name: "amount", Value: value},
		{Name: "target", Value: cl.PublicKeyValue(target)},
		{Name: "id", Value: idValue},
	}}, nil
}

// NewStoredContractByName calls entryPoint on the contract stored under name
// in the caller's named keys.
func NewStoredContractByName(name, entryPoint string, args Args) *StoredContractByName {
	return &StoredContractByName{Name: name, EntryPoint: entryPoint, Args: args}
}

func NewStoredContractByHash(hash Hash, entryPoint string, args Args) *StoredContractByHash {
	return &StoredContractByHash{Hash: hash, EntryPoint: entryPoint, Args: args}
}
