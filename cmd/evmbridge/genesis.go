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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/addrspace"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/state"
	"github.com/urfave/cli/v2"
)

var initCommand = &cli.Command{
	Action:    initLedger,
	Name:      "init",
	Usage:     "Create the genesis collections of a new ledger",
	ArgsUsage: "",
	Description: `
The init command writes the collections listed in the Genesis section of the
configuration file, with their initial balances, to an empty database.`,
}

var errAlreadyInitialized = errors.New("database already holds collections")

type genesisConfig struct {
	Collections []genesisCollection `toml:",omitempty"`
}

// genesisCollection is a collection created by init. Accounts are given as
// hex strings: 20 bytes for an address, 32 bytes for a native key.
type genesisCollection struct {
	Kind                   collection.Kind
	Owner                  string
	Name                   string
	Description            string           `toml:",omitempty"`
	TokenPrefix            string           `toml:",omitempty"`
	Decimals               uint8            `toml:",omitempty"`
	Sponsor                string           `toml:",omitempty"`
	SponsorTransferTimeout *uint32          `toml:",omitempty"`
	SponsorApproveTimeout  *uint32          `toml:",omitempty"`
	TransfersDisabled      bool             `toml:",omitempty"`
	Balances               []genesisBalance `toml:",omitempty"`
}

// genesisBalance is an initial holding. Fungible collections mint Amount,
// refungible collections mint one token split into Amount pieces and
// non-fungible collections mint one token, ignoring Amount. Amount
// defaults to one.
type genesisBalance struct {
	Owner  string
	Amount string `toml:",omitempty"`
}

// parseAccount reads an address or a native key.
func parseAccount(s string) (account.Key, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return account.Key{}, fmt.Errorf("invalid account %q: %v", s, err)
	}
	switch len(b) {
	case 20:
		return account.AddressToKey(common.BytesToAddress(b)), nil
	case account.KeyLength:
		return account.BytesToKey(b), nil
	}
	return account.Key{}, fmt.Errorf("invalid account %q: have %d bytes, want 20 or 32", s, len(b))
}

func timeout(blocks *uint32) collection.Timeout {
	if blocks == nil {
		return collection.Timeout{}
	}
	return collection.Timeout{Set: true, Blocks: *blocks}
}

func (g *genesisCollection) toCollection() (*collection.Collection, error) {
	owner, err := parseAccount(g.Owner)
	if err != nil {
		return nil, err
	}
	coll := &collection.Collection{
		Kind:        g.Kind,
		Owner:       owner,
		Name:        g.Name,
		Description: g.Description,
		TokenPrefix: g.TokenPrefix,
		Decimals:    g.Decimals,
		Limits: collection.Limits{
			SponsorTransferTimeout: timeout(g.SponsorTransferTimeout),
			SponsorApproveTimeout:  timeout(g.SponsorApproveTimeout),
			TransfersDisabled:      g.TransfersDisabled,
		},
	}
	if g.Sponsor != "" {
		sponsor, err := parseAccount(g.Sponsor)
		if err != nil {
			return nil, err
		}
		coll.Sponsorship = collection.Sponsorship{State: collection.SponsorConfirmed, Sponsor: sponsor}
	}
	return coll, nil
}

func (b *genesisBalance) amount() (*uint256.Int, error) {
	if b.Amount == "" {
		return uint256.NewInt(1), nil
	}
	return uint256.FromDecimal(b.Amount)
}

// applyGenesis creates the genesis collections in order, so that their ids
// start at 1, and mints their balances.
func applyGenesis(st *state.StateDB, genesis genesisConfig) error {
	if st.LastCollectionID() != 0 {
		return errAlreadyInitialized
	}
	for i := range genesis.Collections {
		g := &genesis.Collections[i]
		coll, err := g.toCollection()
		if err != nil {
			return fmt.Errorf("collection %q: %w", g.Name, err)
		}
		id, err := st.CreateCollection(coll)
		if err != nil {
			return fmt.Errorf("collection %q: %w", g.Name, err)
		}
		for _, b := range g.Balances {
			if err := mintGenesis(st, coll, b); err != nil {
				return fmt.Errorf("collection %q: %w", g.Name, err)
			}
		}
		log.Info("Created genesis collection", "id", id, "kind", coll.Kind, "name", coll.Name, "address", addrspace.CollectionAddress(id))
	}
	return nil
}

func mintGenesis(st *state.StateDB, coll *collection.Collection, b genesisBalance) error {
	owner, err := parseAccount(b.Owner)
	if err != nil {
		return err
	}
	amount, err := b.amount()
	if err != nil {
		return fmt.Errorf("balance of %s: %v", b.Owner, err)
	}
	switch coll.Kind {
	case collection.Fungible:
		return st.MintFungible(coll.ID, owner, amount)
	case collection.NonFungible:
		_, err = st.MintToken(coll.ID, owner)
	case collection.Refungible:
		_, err = st.MintRefungible(coll.ID, owner, amount)
	default:
		err = collection.ErrUnknownKind
	}
	return err
}

// initLedger is the init command.
func initLedger(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	if len(cfg.Genesis.Collections) == 0 {
		return errors.New("no genesis collections configured")
	}
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	st := state.New(db)
	if err := applyGenesis(st, cfg.Genesis); err != nil {
		return err
	}
	if err := st.Commit(); err != nil {
		return err
	}
	log.Info("Wrote genesis collections", "count", len(cfg.Genesis.Collections))
	return nil
}
