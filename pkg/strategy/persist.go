package strategy

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

var snapshotKey = []byte("strategy/current")

// BadgerPersister stores the live snapshot in a local badger database
// so an operator-tuned strategy survives process restarts.
type BadgerPersister struct {
	db *badger.DB
}

// OpenBadgerPersister opens (or creates) the badger store at path.
func OpenBadgerPersister(path string) (*BadgerPersister, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open strategy store at %s: %w", path, err)
	}
	return &BadgerPersister{db: db}, nil
}

// Save writes the snapshot under a fixed key, replacing any prior one.
func (p *BadgerPersister) Save(snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, raw)
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load returns the saved snapshot, or ok=false when none was ever
// saved.
func (p *BadgerPersister) Load() (Snapshot, bool, error) {
	var raw []byte
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Close releases the underlying database.
func (p *BadgerPersister) Close() error {
	return p.db.Close()
}
