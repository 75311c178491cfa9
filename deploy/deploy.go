// Package deploy builds, hashes, signs and verifies Casper deploys and
// renders them in the binary and JSON forms the node accepts.
package deploy

import (
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/serialization"
)

// Approval is one signature over the deploy hash.
type Approval struct {
	Signer    crypto.PublicKey `json:"signer"`
	Signature crypto.Signature `json:"signature"`
}

func (a Approval) Bytes() []byte {
	return append(a.Signer.Bytes(), a.Signature.Bytes()...)
}

// Deploy is a signed unit of work. Once built only Approvals grows.
type Deploy struct {
	Hash      Hash
	Header    Header
	Payment   ExecutableDeployItem
	Session   ExecutableDeployItem
	Approvals []Approval
}

// New computes the body hash into header and the deploy hash over it. The
// result carries no approvals.
func New(header Header, payment, session ExecutableDeployItem) (*Deploy, error) {
	if err := crypto.CheckPubKey(header.Account); err != nil {
		return nil, errors.Wrap(err, "deploy account")
	}
	bodyHash, err := ComputeBodyHash(payment, session)
	if err != nil {
		return nil, err
	}
	header.BodyHash = bodyHash
	return &Deploy{
		Hash:    ComputeHeaderHash(header),
		Header:  header,
		Payment: payment,
		Session: session,
	}, nil
}

// ComputeBodyHash is BLAKE2b-256 over the payment bytes followed by the
// session bytes.
func ComputeBodyHash(payment, session ExecutableDeployItem) (Hash, error) {
	p, err := ItemBytes(payment)
	if err != nil {
		return Hash{}, errors.Wrap(err, "payment")
	}
	s, err := ItemBytes(session)
	if err != nil {
		return Hash{}, errors.Wrap(err, "session")
	}
	return blake2b.Sum256(append(p, s...)), nil
}

func ComputeHeaderHash(header Header) Hash {
	return blake2b.Sum256(header.Bytes())
}

// Sign appends an approval by kp over the deploy hash. Signing twice with the
// same key appends two approvals.
func (d *Deploy) Sign(kp crypto.KeyPair) error {
	sig, err := kp.Sign(d.Hash[:])
	if err != nil {
		return errors.Wrap(err, "sign deploy")
	}
	d.AddApproval(Approval{Signer: kp.PublicKey(), Signature: sig})
	return nil
}

// AddApproval appends a without checking its signature.
func (d *Deploy) AddApproval(a Approval) {
	d.Approvals = append(d.Approvals, a)
}

// ValidateHashes recomputes the body hash and the deploy hash from the
// current contents and compares them with the stored values.
func (d *Deploy) ValidateHashes() error {
	bodyHash, err := ComputeBodyHash(d.Payment, d.Session)
	if err != nil {
		return err
	}
	if bodyHash != d.Header.BodyHash {
		return errors.Wrapf(sdkerr.ErrHashMismatch, "body hash: expected %s, computed %s", d.Header.BodyHash, bodyHash)
	}
	if hash := ComputeHeaderHash(d.Header); hash != d.Hash {
		return errors.Wrapf(sdkerr.ErrHashMismatch, "deploy hash: expected %s, computed %s", d.Hash, hash)
	}
	return nil
}

// VerifySignatures checks every approval against the deploy hash and reports
// the first signer whose signature does not verify.
func (d *Deploy) VerifySignatures() error {
	for i, a := range d.Approvals {
		if !crypto.Verify(a.Signer, d.Hash[:], a.Signature) {
			return errors.Wrapf(sdkerr.ErrSignatureVerification, "approval %d by %s", i, a.Signer)
		}
	}
	return nil
}

// Bytes is the canonical binary deploy.
func (d *Deploy) Bytes() ([]byte, error) {
	payment, err := ItemBytes(d.Payment)
	if err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	session, err := ItemBytes(d.Session)
	if err != nil {
		return nil, errors.Wrap(err, "session")
	}
	w := serialization.NewWriter()
	w.WriteBytes(d.Header.Bytes())
	w.WriteBytes(d.Hash[:])
	w.WriteBytes(payment)
	w.WriteBytes(session)
	w.WriteUInteger(uint32(len(d.Approvals)))
	for _, a := range d.Approvals {
		w.WriteBytes(a.Bytes())
	}
	return w.Bytes(), nil
}

// Size is the length of the binary deploy, which the node limits.
func (d *Deploy) Size() (int, error) {
	b, err := d.Bytes()
	return len(b), err
}

type deployJSON struct {
	Hash      Hash            `json:"hash"`
	Header    Header          `json:"header"`
	Payment   json.RawMessage `json:"payment"`
	Session   json.RawMessage `json:"session"`
	Approvals []Approval      `json:"approvals"`
}

func (d *Deploy) MarshalJSON() ([]byte, error) {
	payment, err := MarshalItem(d.Payment)
	if err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	session, err := MarshalItem(d.Session)
	if err != nil {
		return nil, errors.Wrap(err, "session")
	}
	approvals := d.Approvals
	if approvals == nil {
		approvals = []Approval{}
	}
	return json.Marshal(deployJSON{
		Hash:      d.Hash,
		Header:    d.Header,
		Payment:   payment,
		Session:   session,
		Approvals: approvals,
	})
}

func (d *Deploy) UnmarshalJSON(data []byte) error {
	var j deployJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	payment, err := UnmarshalItem(j.Payment)
	if err != nil {
		return errors.Wrap(err, "payment")
	}
	session, err := UnmarshalItem(j.Session)
	if err != nil {
		return errors.Wrap(err, "session")
	}
	*d = Deploy{
		Hash:      j.Hash,
		Header:    j.Header,
		Payment:   payment,
		Session:   session,
		Approvals: j.Approvals,
	}
	return nil
}
