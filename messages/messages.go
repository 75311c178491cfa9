package messages

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cl"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/deploy"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/globalstate"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const JSONRPCVersion = "2.0"

type Method string

const (
	MethodPutDeploy        Method = "account_put_deploy"
	MethodGetDeploy        Method = "info_get_deploy"
	MethodQueryGlobalState Method = "query_global_state"
	MethodGetStateRootHash Method = "chain_get_state_root_hash"
	MethodGetBalance       Method = "state_get_balance"
	MethodGetAccountInfo   Method = "state_get_account_info"
)

type Request struct {
	Version string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  Method      `json:"method"`
	Params  interface{} `json:"params"`
}

type Response struct {
	Version string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func NewRequest(id uint64, method Method, params interface{}) Request {
	return Request{Version: JSONRPCVersion, ID: id, Method: method, Params: params}
}

// Decode unpacks the result of r into result, or returns the node's error.
func (r Response) Decode(result interface{}) error {
	if r.Error != nil {
		return r.Error
	}
	if len(r.Result) == 0 {
		return errors.Wrap(sdkerr.ErrFormat, "response has neither result nor error")
	}
	return json.Unmarshal(r.Result, result)
}

// ------------------------------------------------------------------------------------------------------------------- //
// Deploys

type PutDeployParams struct {
	Deploy *deploy.Deploy `json:"deploy"`
}

type PutDeployResult struct {
	APIVersion string      `json:"api_version"`
	DeployHash deploy.Hash `json:"deploy_hash"`
}

type GetDeployParams struct {
	DeployHash deploy.Hash `json:"deploy_hash"`
}

type ExecutionResult struct {
	BlockHash deploy.Hash     `json:"block_hash"`
	Result    json.RawMessage `json:"result"`
}

type GetDeployResult struct {
	APIVersion       string            `json:"api_version"`
	Deploy           *deploy.Deploy    `json:"deploy"`
	ExecutionResults []ExecutionResult `json:"execution_results"`
}

func NewPutDeployRequest(id uint64, d *deploy.Deploy) Request {
	return NewRequest(id, MethodPutDeploy, PutDeployParams{Deploy: d})
}

func NewGetDeployRequest(id uint64, hash deploy.Hash) Request {
	return NewRequest(id, MethodGetDeploy, GetDeployParams{DeployHash: hash})
}

// ------------------------------------------------------------------------------------------------------------------- //
// Global state

type StateIdentifierType string

const (
	StateRootHash StateIdentifierType = "StateRootHash"
	BlockHash     StateIdentifierType = "BlockHash"
)

// StateIdentifier selects the global state snapshot a query runs against.
type StateIdentifier struct {
	Type StateIdentifierType
	Hash deploy.Hash
}

func (s StateIdentifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[StateIdentifierType]deploy.Hash{s.Type: s.Hash})
}

func (s *StateIdentifier) UnmarshalJSON(data []byte) error {
	var obj map[StateIdentifierType]deploy.Hash
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) != 1 {
		return errors.Wrapf(sdkerr.ErrFormat, "state identifier %s", data)
	}
	for t, h := range obj {
		if t != StateRootHash && t != BlockHash {
			return errors.Wrapf(sdkerr.ErrFormat, "state identifier kind %q", t)
		}
		s.Type, s.Hash = t, h
	}
	return nil
}

type QueryGlobalStateParams struct {
	StateIdentifier StateIdentifier `json:"state_identifier"`
	Key             globalstate.Key `json:"key"`
	Path            []string        `json:"path"`
}

func NewQueryGlobalStateRequest(id uint64, state StateIdentifier, key globalstate.Key, path ...string) Request {
	if path == nil {
		path = []string{}
	}
	return NewRequest(id, MethodQueryGlobalState, QueryGlobalStateParams{StateIdentifier: state, Key: key, Path: path})
}

type NamedKey struct {
	Name string          `json:"name"`
	Key  globalstate.Key `json:"key"`
}

type Account struct {
	AccountHash globalstate.Key  `json:"account_hash"`
	NamedKeys   []NamedKey       `json:"named_keys"`
	MainPurse   globalstate.URef `json:"main_purse"`
}

// StoredValue holds whichever variant the node returned. Variants this
// client does not model are kept raw.
type StoredValue struct {
	CLValue *cl.CLValue
	Account *Account
	Other   map[string]json.RawMessage
}

func (v StoredValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.CLValue != nil:
		return json.Marshal(map[string]interface{}{"CLValue": v.CLValue})
	case v.Account != nil:
		return json.Marshal(map[string]interface{}{"Account": v.Account})
	}
	return json.Marshal(v.Other)
}

func (v *StoredValue) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) != 1 {
		return errors.Wrapf(sdkerr.ErrFormat, "stored value %s", data)
	}
	*v = StoredValue{}
	if raw, ok := obj["CLValue"]; ok {
		v.CLValue = new(cl.CLValue)
		return json.Unmarshal(raw, v.CLValue)
	}
	if raw, ok := obj["Account"]; ok {
		v.Account = new(Account)
		return json.Unmarshal(raw, v.Account)
	}
	v.Other = obj
	return nil
}

type QueryGlobalStateResult struct {
	APIVersion  string      `json:"api_version"`
	StoredValue StoredValue `json:"stored_value"`
	MerkleProof string      `json:"merkle_proof"`
}
