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
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/sponsor"
)

// fungible serves a fungible collection at its collection address.
type fungible struct {
	ctx  *Context
	coll *collection.Collection
}

var fungibleDialect = newDialect[*fungible](
	erc20Table[*fungible](),
	erc20MetadataTable[*fungible](),
	erc20CrossTable[*fungible](),
	newCallTable[*fungible]("ERC20Mintable",
		mutMethod[*fungible]("mint(address,uint256)", decodeFungibleMint(readAddressID)),
		mutMethod[*fungible]("mintCross((address,uint256),uint256)", decodeFungibleMint(readCross)),
	),
)

func (h *fungible) context() *Context                  { return h.ctx }
func (h *fungible) collection() *collection.Collection { return h.coll }
func (h *fungible) symbol() string                     { return h.coll.TokenPrefix }
func (h *fungible) decimals() uint8                    { return h.coll.Decimals }

func (h *fungible) totalSupply() *uint256.Int {
	return h.ctx.state.FungibleSupply(h.coll.ID)
}

func (h *fungible) balanceOf(owner account.Key) *uint256.Int {
	return h.ctx.state.FungibleBalance(h.coll.ID, owner)
}

func (h *fungible) allowance(owner, spender account.Key) *uint256.Int {
	return h.ctx.state.FungibleAllowance(h.coll.ID, owner, spender)
}

func (h *fungible) setAllowance(owner, spender account.Key, amount *uint256.Int) {
	h.ctx.state.SetFungibleAllowance(h.coll.ID, owner, spender, amount)
}

func (h *fungible) spendAllowance(owner, spender account.Key, amount *uint256.Int) error {
	return h.ctx.state.SpendFungibleAllowance(h.coll.ID, owner, spender, amount)
}

func (h *fungible) move(from, to account.CrossAccountId, amount *uint256.Int) error {
	if err := h.ctx.state.TransferFungible(h.coll.ID, from.Key(), to.Key(), amount); err != nil {
		return err
	}
	return h.ctx.emit(erc20TransferEvent, from.Address(), to.Address(), amount)
}

func (h *fungible) burn(from account.CrossAccountId, amount *uint256.Int) error {
	if err := h.ctx.state.BurnFungible(h.coll.ID, from.Key(), amount); err != nil {
		return err
	}
	return h.ctx.emit(erc20TransferEvent, from.Address(), common.Address{}, amount)
}

func (h *fungible) subject(owner account.Key) []byte {
	return sponsor.AccountSubject(owner)
}

type fungibleMint struct {
	to     account.CrossAccountId
	amount *uint256.Int
}

func decodeFungibleMint(read idReader) func(r *abi.Reader) (call[*fungible], error) {
	return func(r *abi.Reader) (call[*fungible], error) {
		to, amount, err := readIDAmount(r, read)
		if err != nil {
			return nil, err
		}
		return fungibleMint{to, amount}, nil
	}
}

func (c fungibleMint) exec(h *fungible) ([]byte, error) {
	if err := h.ctx.requireCollectionOwner(h.coll); err != nil {
		return nil, err
	}
	if c.to.IsZero() {
		return nil, ErrZeroAddress
	}
	if err := h.ctx.checkNestingTarget(c.to, nil); err != nil {
		return nil, err
	}
	if err := h.ctx.state.MintFungible(h.coll.ID, c.to.Key(), c.amount); err != nil {
		return nil, err
	}
	if err := h.ctx.emit(erc20TransferEvent, common.Address{}, c.to.Address(), c.amount); err != nil {
		return nil, err
	}
	return packBool(true), nil
}
