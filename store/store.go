// Package store keeps signed deploys in a local key value database so they can
// be inspected, re-signed and sent later.
package store

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/crypto"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/deploy"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const dbName = "deploys"

var (
	deployPrefix  = []byte("deploy/")
	accountPrefix = []byte("account/")
)

type DeployStore struct {
	db       dbm.DB
	deploys  dbm.DB
	accounts dbm.DB
	logger   log.Logger
}

func New(db dbm.DB, logger log.Logger) *DeployStore {
	return &DeployStore{
		db:       db,
		deploys:  dbm.NewPrefixDB(db, deployPrefix),
		accounts: dbm.NewPrefixDB(db, accountPrefix),
		logger:   logger,
	}
}

// Open opens (or creates) the leveldb database under dir.
func Open(dir string, logger log.Logger) (*DeployStore, error) {
	db, err := dbm.NewGoLevelDB(dbName, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open deploy store in %s", dir)
	}
	return New(db, logger), nil
}

func (s *DeployStore) Close() error {
	return s.db.Close()
}

func accountKey(account crypto.PublicKey, hash deploy.Hash) []byte {
	accountHash := account.AccountHash()
	return append(accountHash[:], hash[:]...)
}

// Put stores d after checking its hashes. Storing the same deploy twice
// replaces the previous copy, which keeps newly added approvals.
func (s *DeployStore) Put(d *deploy.Deploy) error {
	if err := d.ValidateHashes(); err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	batch.Set(append(append([]byte{}, deployPrefix...), d.Hash[:]...), data)
	batch.Set(append(append([]byte{}, accountPrefix...), accountKey(d.Header.Account, d.Hash)...), []byte{})
	if err := batch.WriteSync(); err != nil {
		return errors.Wrap(err, "write deploy")
	}

	s.logger.Info("Stored deploy", "hash", d.Hash, "account", d.Header.Account, "approvals", len(d.Approvals))
	return nil
}

func (s *DeployStore) Get(hash deploy.Hash) (*deploy.Deploy, error) {
	data, err := s.deploys.Get(hash[:])
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.Wrapf(sdkerr.ErrNotFound, "deploy %s", hash)
	}
	d := new(deploy.Deploy)
	if err := json.Unmarshal(data, d); err != nil {
		return nil, errors.Wrapf(err, "decode stored deploy %s", hash)
	}
	return d, nil
}

func (s *DeployStore) Has(hash deploy.Hash) (bool, error) {
	return s.deploys.Has(hash[:])
}

func (s *DeployStore) Delete(hash deploy.Hash) error {
	d, err := s.Get(hash)
	if err != nil {
		return err
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	batch.Delete(append(append([]byte{}, deployPrefix...), hash[:]...))
	batch.Delete(append(append([]byte{}, accountPrefix...), accountKey(d.Header.Account, hash)...))
	if err := batch.WriteSync(); err != nil {
		return errors.Wrap(err, "delete deploy")
	}
	s.logger.Debug("Deleted deploy", "hash", hash)
	return nil
}

// List returns the hashes of all stored deploys in byte order.
func (s *DeployStore) List() ([]deploy.Hash, error) {
	return collect(s.deploys, nil, nil, 0)
}

// ListByAccount returns the hashes of the deploys sent from account.
func (s *DeployStore) ListByAccount(account crypto.PublicKey) ([]deploy.Hash, error) {
	accountHash := account.AccountHash()
	start := accountHash[:]
	return collect(s.accounts, start, prefixEnd(start), len(start))
}

func collect(db dbm.DB, start, end []byte, skip int) ([]deploy.Hash, error) {
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var hashes []deploy.Hash
	for ; it.Valid(); it.Next() {
		key := it.Key()[skip:]
		if len(key) != deploy.HashSize {
			return nil, errors.Wrapf(sdkerr.ErrFormat, "stored key %s", hex.EncodeToString(it.Key()))
		}
		var h deploy.Hash
		copy(h[:], key)
		hashes = append(hashes, h)
	}
	return hashes, it.Error()
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
