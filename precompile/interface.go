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

package precompile

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/sponsor"
)

// StateDB is the ledger storage the bridge executes against.
type StateDB interface {
	sponsor.Store

	Collection(id collection.ID) *collection.Collection

	FungibleBalance(id collection.ID, owner account.Key) *uint256.Int
	FungibleSupply(id collection.ID) *uint256.Int
	FungibleAllowance(id collection.ID, owner, spender account.Key) *uint256.Int
	SetFungibleAllowance(id collection.ID, owner, spender account.Key, amount *uint256.Int)
	SpendFungibleAllowance(id collection.ID, owner, spender account.Key, amount *uint256.Int) error
	TransferFungible(id collection.ID, from, to account.Key, amount *uint256.Int) error
	MintFungible(id collection.ID, to account.Key, amount *uint256.Int) error
	BurnFungible(id collection.ID, from account.Key, amount *uint256.Int) error

	TokensMinted(id collection.ID) collection.TokenID
	CollectionTokens(id collection.ID) []collection.TokenID
	AccountTokens(id collection.ID, owner account.Key) []collection.TokenID
	AccountBalance(id collection.ID, owner account.Key) uint32
	TokenOwner(id collection.ID, token collection.TokenID) (account.Key, bool)
	TokenApproved(id collection.ID, token collection.TokenID) (account.Key, bool)
	ApproveToken(id collection.ID, token collection.TokenID, approved account.Key)
	IsOperator(id collection.ID, owner, operator account.Key) bool
	SetOperator(id collection.ID, owner, operator account.Key, approved bool)
	TokenURI(id collection.ID, token collection.TokenID) string
	SetTokenURI(id collection.ID, token collection.TokenID, uri string)
	MintToken(id collection.ID, to account.Key) (collection.TokenID, error)
	TransferToken(id collection.ID, token collection.TokenID, from, to account.Key) error
	BurnToken(id collection.ID, token collection.TokenID, from account.Key) error

	PieceSupply(id collection.ID, token collection.TokenID) *uint256.Int
	PieceBalance(id collection.ID, token collection.TokenID, owner account.Key) *uint256.Int
	PieceAllowance(id collection.ID, token collection.TokenID, owner, spender account.Key) *uint256.Int
	SetPieceAllowance(id collection.ID, token collection.TokenID, owner, spender account.Key, amount *uint256.Int)
	SpendPieceAllowance(id collection.ID, token collection.TokenID, owner, spender account.Key, amount *uint256.Int) error
	SoleOwner(id collection.ID, token collection.TokenID) (account.Key, bool)
	MintRefungible(id collection.ID, to account.Key, pieces *uint256.Int) (collection.TokenID, error)
	TransferPieces(id collection.ID, token collection.TokenID, from, to account.Key, amount *uint256.Int) error
	BurnPieces(id collection.ID, token collection.TokenID, from account.Key, amount *uint256.Int) error
	Repartition(id collection.ID, token collection.TokenID, owner account.Key, pieces *uint256.Int) error

	Snapshot() int
	RevertToSnapshot(revid int)
}

// Message is an inbound call to a synthetic address.
type Message struct {
	Caller      common.Address
	To          common.Address
	Input       []byte
	Value       *uint256.Int
	BlockNumber uint64

	// RequestSponsorship asks the collection sponsor to pay for the call.
	RequestSponsorship bool
}

// Result is the outcome of a handled call. On failure Output holds the
// revert data and Logs is empty.
type Result struct {
	Output []byte
	Logs   []*types.Log

	// Sponsor is the account paying for the call, nil if the caller pays.
	Sponsor *account.Key
}
