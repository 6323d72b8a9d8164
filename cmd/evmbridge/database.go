// Copyright 2025 The evmbridge Authors
// This file is part of evmbridge.
//
// evmbridge is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// evmbridge is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with evmbridge. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/ethdb/pebble"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v2"
)

const (
	dbMemory    = "memory"
	dbNamespace = "evmbridge/db/ledger/"
)

// errDatadirUsed is returned when another process holds the datadir.
var errDatadirUsed = errors.New("datadir already used by another process")

// lockedDatabase releases the datadir lock when the database is closed.
type lockedDatabase struct {
	ethdb.KeyValueStore
	lock *flock.Flock
}

func (db *lockedDatabase) Close() error {
	err := db.KeyValueStore.Close()
	if db.lock != nil {
		if uerr := db.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// openDatabase opens the ledger database of the datadir. The in-memory
// engine needs no datadir and is discarded on close.
func openDatabase(ctx *cli.Context, cfg databaseConfig) (ethdb.KeyValueStore, error) {
	if cfg.Engine == dbMemory {
		log.Warn("Using an in-memory ledger, nothing will be persisted")
		return memorydb.New(), nil
	}
	datadir := ctx.String(dataDirFlag.Name)
	if datadir == "" {
		return nil, errors.New("no datadir configured")
	}
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, err
	}
	// Lock the directory to prevent concurrent use by another instance.
	lock := flock.New(filepath.Join(datadir, "LOCK"))
	if locked, err := lock.TryLock(); err != nil {
		return nil, err
	} else if !locked {
		return nil, errDatadirUsed
	}
	db, err := openKeyValueDatabase(filepath.Join(datadir, "ledger"), cfg)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	return &lockedDatabase{KeyValueStore: db, lock: lock}, nil
}

// openKeyValueDatabase opens a disk-based key-value database, e.g. leveldb or pebble.
//
//	                      type == null          type != null
//	                   +----------------------------------------
//	db is non-existent |  pebble default  |  specified type
//	db is existent     |  from db         |  specified type (if compatible)
func openKeyValueDatabase(dir string, cfg databaseConfig) (ethdb.KeyValueStore, error) {
	if len(cfg.Engine) != 0 && cfg.Engine != rawdb.DBLeveldb && cfg.Engine != rawdb.DBPebble {
		return nil, fmt.Errorf("unknown db.engine %v", cfg.Engine)
	}
	existing := rawdb.PreexistingDatabase(dir)
	if len(existing) != 0 && len(cfg.Engine) != 0 && cfg.Engine != existing {
		return nil, fmt.Errorf("db.engine choice was %v but found pre-existing %v database in specified data directory", cfg.Engine, existing)
	}
	if cfg.Engine == rawdb.DBLeveldb || existing == rawdb.DBLeveldb {
		log.Info("Using leveldb as the backing database")
		return leveldb.New(dir, cfg.Cache, cfg.Handles, dbNamespace, false)
	}
	log.Info("Using pebble as the backing database")
	return pebble.New(dir, cfg.Cache, cfg.Handles, dbNamespace, false)
}
