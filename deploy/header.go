package deploy

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cep57"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/serialization"
)

const HashSize = blake2b.Size256

// Hash is a BLAKE2b-256 digest. Its text form is checksummed hex.
type Hash [HashSize]byte

func ParseHash(s string) (Hash, error) {
	raw, err := cep57.DecodeFixed(s, HashSize)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

func (h Hash) String() string { return cep57.Encode(h[:]) }

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrapf(sdkerr.ErrFormat, "hash %s", data)
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Header carries the deploy metadata the deploy hash commits to.
type Header struct {
	Account      crypto.PublicKey
	Timestamp    time.Time
	TTL          time.Duration
	GasPrice     uint64
	BodyHash     Hash
	Dependencies []Hash
	ChainName    string
}

// NewHeader builds a header with a zero body hash; New fills it in.
func NewHeader(account crypto.PublicKey, timestamp time.Time, ttl time.Duration, gasPrice uint64, chainName string, deps ...Hash) Header {
	return Header{
		Account:      account,
		Timestamp:    timestamp.UTC().Truncate(time.Millisecond),
		TTL:          ttl.Truncate(time.Millisecond),
		GasPrice:     gasPrice,
		Dependencies: deps,
		ChainName:    chainName,
	}
}

// Bytes is the canonical header encoding hashed into the deploy hash.
func (h Header) Bytes() []byte {
	w := serialization.NewWriter()
	w.WriteBytes(h.Account.Bytes())
	w.WriteULong(millis(h.Timestamp))
	w.WriteULong(uint64(h.TTL / time.Millisecond))
	w.WriteULong(h.GasPrice)
	w.WriteBytes(h.BodyHash[:])
	w.WriteUInteger(uint32(len(h.Dependencies)))
	for _, dep := range h.Dependencies {
		w.WriteBytes(dep[:])
	}
	w.WriteString(h.ChainName)
	return w.Bytes()
}

// Expired reports whether the header's time to live has passed at now.
func (h Header) Expired(now time.Time) bool {
	return now.After(h.Timestamp.Add(h.TTL))
}

type headerJSON struct {
	Account      crypto.PublicKey `json:"account"`
	Timestamp    string           `json:"timestamp"`
	TTL          string           `json:"ttl"`
	GasPrice     uint64           `json:"gas_price"`
	BodyHash     Hash             `json:"body_hash"`
	Dependencies []Hash           `json:"dependencies"`
	ChainName    string           `json:"chain_name"`
}

func (h Header) MarshalJSON() ([]byte, error) {
	deps := h.Dependencies
	if deps == nil {
		deps = []Hash{}
	}
	return json.Marshal(headerJSON{
		Account:      h.Account,
		Timestamp:    FormatTimestamp(h.Timestamp),
		TTL:          FormatDuration(h.TTL),
		GasPrice:     h.GasPrice,
		BodyHash:     h.BodyHash,
		Dependencies: deps,
		ChainName:    h.ChainName,
	})
}

func (h *Header) UnmarshalJSON(data []byte) error {
	var j headerJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	ts, err := ParseTimestamp(j.Timestamp)
	if err != nil {
		return err
	}
	ttl, err := ParseDuration(j.TTL)
	if err != nil {
		return err
	}
	*h = Header{
		Account:      j.Account,
		Timestamp:    ts,
		TTL:          ttl,
		GasPrice:     j.GasPrice,
		BodyHash:     j.BodyHash,
		Dependencies: j.Dependencies,
		ChainName:    j.ChainName,
	}
	return nil
}
