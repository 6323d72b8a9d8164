// Copyright 2025 The evmbridge Authors
// This file is part of the evmbridge library.
//
// The evmbridge library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The evmbridge library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the evmbridge library. If not, see <http://www.gnu.org/licenses/>.

// Package state is the ledger storage the bridge executes against: collection
// metadata, balances and ownership of every asset kind, and sponsorship
// records, kept in an ethdb key-value store.
package state

import (
	"slices"

	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ledgerbridge/evmbridge/collection"
)

const collectionCacheSize = 256

type pendingValue struct {
	value   []byte
	deleted bool
}

// StateDB buffers writes in memory on top of a database. Writes are
// journaled so a failed call can be rolled back with RevertToSnapshot, and
// nothing reaches the database before Commit.
//
// A StateDB is not safe for concurrent use.
type StateDB struct {
	db      ethdb.KeyValueStore
	pending map[string]pendingValue
	journal *journal

	// collections caches committed collection metadata only, so it never
	// needs to follow a revert.
	collections lru.BasicLRU[collection.ID, collection.Collection]
}

// New creates a state on top of db.
func New(db ethdb.KeyValueStore) *StateDB {
	return &StateDB{
		db:          db,
		pending:     make(map[string]pendingValue),
		journal:     newJournal(),
		collections: lru.NewBasicLRU[collection.ID, collection.Collection](collectionCacheSize),
	}
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	return s.journal.snapshot()
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	s.journal.revertToSnapshot(revid, s)
}

// Dirty reports the number of journaled writes since the last commit.
func (s *StateDB) Dirty() int {
	return s.journal.length()
}

// Commit flushes all pending writes to the database in one batch.
func (s *StateDB) Commit() error {
	keys := make([]string, 0, len(s.pending))
	for k := range s.pending {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	batch := s.db.NewBatch()
	for _, k := range keys {
		v := s.pending[k]
		var err error
		if v.deleted {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.value)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	log.Debug("Committed bridge state", "writes", len(keys))

	clear(s.pending)
	s.journal.reset()
	s.collections.Purge()
	return nil
}

func (s *StateDB) get(key []byte) []byte {
	if v, ok := s.pending[string(key)]; ok {
		if v.deleted {
			return nil
		}
		return v.value
	}
	enc, _ := s.db.Get(key)
	return enc
}

func (s *StateDB) write(key []byte, value []byte, deleted bool) {
	k := string(key)
	prev, existed := s.pending[k]
	s.journal.append(journalEntry{key: k, prev: prev, existed: existed})
	s.pending[k] = pendingValue{value: value, deleted: deleted}
}

func (s *StateDB) put(key []byte, value []byte) {
	s.write(key, value, false)
}

func (s *StateDB) del(key []byte) {
	s.write(key, nil, true)
}

// readRLP decodes the value under key into out and reports whether a value
// was found. Corrupt entries are logged and treated as missing.
func (s *StateDB) readRLP(key []byte, out interface{}) bool {
	enc := s.get(key)
	if len(enc) == 0 {
		return false
	}
	if err := rlp.DecodeBytes(enc, out); err != nil {
		log.Error("Invalid bridge state RLP", "key", key, "err", err)
		return false
	}
	return true
}

func (s *StateDB) writeRLP(key []byte, val interface{}) {
	enc, err := rlp.EncodeToBytes(val)
	if err != nil {
		log.Crit("Failed to RLP encode bridge state", "err", err)
	}
	s.put(key, enc)
}
