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
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/sponsor"
)

// erc20Handler is a balance ledger served through the ERC-20 interface:
// fungible collections and the pieces of one refungible token.
type erc20Handler interface {
	context() *Context
	collection() *collection.Collection

	symbol() string
	decimals() uint8

	totalSupply() *uint256.Int
	balanceOf(owner account.Key) *uint256.Int
	allowance(owner, spender account.Key) *uint256.Int
	setAllowance(owner, spender account.Key, amount *uint256.Int)
	spendAllowance(owner, spender account.Key, amount *uint256.Int) error

	// move and burn update storage and emit the matching events.
	move(from, to account.CrossAccountId, amount *uint256.Int) error
	burn(from account.CrossAccountId, amount *uint256.Int) error

	subject(owner account.Key) []byte
}

type idReader func(r *abi.Reader) (account.CrossAccountId, error)

func erc20Table[H erc20Handler]() *callTable[H] {
	return newCallTable[H]("ERC20",
		viewMethod[H]("totalSupply()", noArgs[H](erc20TotalSupply[H]{})),
		viewMethod[H]("balanceOf(address)", decodeERC20BalanceOf[H](readAddressID)),
		mutMethod[H]("transfer(address,uint256)", decodeERC20Transfer[H](readAddressID)),
		mutMethod[H]("transferFrom(address,address,uint256)", decodeERC20TransferFrom[H](readAddressID)),
		mutMethod[H]("approve(address,uint256)", decodeERC20Approve[H](readAddressID)),
		viewMethod[H]("allowance(address,address)", decodeERC20Allowance[H](readAddressID)),
	)
}

func erc20MetadataTable[H erc20Handler]() *callTable[H] {
	return newCallTable[H]("ERC20Metadata",
		viewMethod[H]("name()", noArgs[H](erc20Name[H]{})),
		viewMethod[H]("symbol()", noArgs[H](erc20Symbol[H]{})),
		viewMethod[H]("decimals()", noArgs[H](erc20Decimals[H]{})),
	)
}

// erc20CrossTable holds the cross account forms of the ERC-20 methods and
// burning, which the standard leaves out.
func erc20CrossTable[H erc20Handler]() *callTable[H] {
	return newCallTable[H]("ERC20Cross",
		viewMethod[H]("balanceOfCross((address,uint256))", decodeERC20BalanceOf[H](readCross)),
		mutMethod[H]("transferCross((address,uint256),uint256)", decodeERC20Transfer[H](readCross)),
		mutMethod[H]("transferFromCross((address,uint256),(address,uint256),uint256)", decodeERC20TransferFrom[H](readCross)),
		mutMethod[H]("approveCross((address,uint256),uint256)", decodeERC20Approve[H](readCross)),
		viewMethod[H]("allowanceCross((address,uint256),(address,uint256))", decodeERC20Allowance[H](readCross)),
		mutMethod[H]("burnFrom(address,uint256)", decodeERC20BurnFrom[H](readAddressID)),
		mutMethod[H]("burnFromCross((address,uint256),uint256)", decodeERC20BurnFrom[H](readCross)),
	)
}

// readIDAmount reads an account followed by a uint256 amount.
func readIDAmount(r *abi.Reader, read idReader) (account.CrossAccountId, *uint256.Int, error) {
	id, err := read(r)
	if err != nil {
		return id, nil, err
	}
	amount, err := r.ReadUint256()
	return id, amount, err
}

// readIDPair reads two accounts.
func readIDPair(r *abi.Reader, read idReader) (account.CrossAccountId, account.CrossAccountId, error) {
	a, err := read(r)
	if err != nil {
		return a, account.CrossAccountId{}, err
	}
	b, err := read(r)
	return a, b, err
}

// erc20Spend moves amount out of from on behalf of the caller. Callers
// other than the owner, directly or through nesting, spend allowance.
func erc20Spend[H erc20Handler](h H, from account.CrossAccountId, amount *uint256.Int) error {
	ctx := h.context()
	owns, err := ctx.owns(from)
	if err != nil {
		return err
	}
	if owns {
		return nil
	}
	return h.spendAllowance(from.Key(), ctx.caller.Key(), amount)
}

func erc20Move[H erc20Handler](h H, from, to account.CrossAccountId, amount *uint256.Int) error {
	if h.collection().Limits.TransfersDisabled {
		return ErrTransfersDisabled
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	if err := erc20Spend(h, from, amount); err != nil {
		return err
	}
	if err := h.context().checkNestingTarget(to, nil); err != nil {
		return err
	}
	return h.move(from, to, amount)
}

type erc20TotalSupply[H erc20Handler] struct{}

func (erc20TotalSupply[H]) exec(h H) ([]byte, error) {
	return packUint256(h.totalSupply()), nil
}

type erc20BalanceOf[H erc20Handler] struct {
	owner account.CrossAccountId
}

func decodeERC20BalanceOf[H erc20Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		owner, err := read(r)
		if err != nil {
			return nil, err
		}
		return erc20BalanceOf[H]{owner}, nil
	}
}

func (c erc20BalanceOf[H]) exec(h H) ([]byte, error) {
	return packUint256(h.balanceOf(c.owner.Key())), nil
}

type erc20Transfer[H erc20Handler] struct {
	to     account.CrossAccountId
	amount *uint256.Int
}

func decodeERC20Transfer[H erc20Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		to, amount, err := readIDAmount(r, read)
		if err != nil {
			return nil, err
		}
		return erc20Transfer[H]{to, amount}, nil
	}
}

func (c erc20Transfer[H]) exec(h H) ([]byte, error) {
	if err := erc20Move(h, h.context().caller, c.to, c.amount); err != nil {
		return nil, err
	}
	return packBool(true), nil
}

func (c erc20Transfer[H]) throttle(h H) (sponsor.Class, []byte) {
	return sponsor.Transfer, h.subject(h.context().caller.Key())
}

type erc20TransferFrom[H erc20Handler] struct {
	from, to account.CrossAccountId
	amount   *uint256.Int
}

func decodeERC20TransferFrom[H erc20Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		from, to, err := readIDPair(r, read)
		if err != nil {
			return nil, err
		}
		amount, err := r.ReadUint256()
		if err != nil {
			return nil, err
		}
		return erc20TransferFrom[H]{from, to, amount}, nil
	}
}

func (c erc20TransferFrom[H]) exec(h H) ([]byte, error) {
	if err := erc20Move(h, c.from, c.to, c.amount); err != nil {
		return nil, err
	}
	return packBool(true), nil
}

func (c erc20TransferFrom[H]) throttle(h H) (sponsor.Class, []byte) {
	return sponsor.Transfer, h.subject(c.from.Key())
}

type erc20Approve[H erc20Handler] struct {
	spender account.CrossAccountId
	amount  *uint256.Int
}

func decodeERC20Approve[H erc20Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		spender, amount, err := readIDAmount(r, read)
		if err != nil {
			return nil, err
		}
		return erc20Approve[H]{spender, amount}, nil
	}
}

func (c erc20Approve[H]) exec(h H) ([]byte, error) {
	ctx := h.context()
	h.setAllowance(ctx.caller.Key(), c.spender.Key(), c.amount)
	if err := ctx.emit(erc20ApprovalEvent, ctx.caller.Address(), c.spender.Address(), c.amount); err != nil {
		return nil, err
	}
	return packBool(true), nil
}

func (c erc20Approve[H]) throttle(h H) (sponsor.Class, []byte) {
	return sponsor.Approve, h.subject(h.context().caller.Key())
}

type erc20Allowance[H erc20Handler] struct {
	owner, spender account.CrossAccountId
}

func decodeERC20Allowance[H erc20Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		owner, spender, err := readIDPair(r, read)
		if err != nil {
			return nil, err
		}
		return erc20Allowance[H]{owner, spender}, nil
	}
}

func (c erc20Allowance[H]) exec(h H) ([]byte, error) {
	return packUint256(h.allowance(c.owner.Key(), c.spender.Key())), nil
}

type erc20BurnFrom[H erc20Handler] struct {
	from   account.CrossAccountId
	amount *uint256.Int
}

func decodeERC20BurnFrom[H erc20Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		from, amount, err := readIDAmount(r, read)
		if err != nil {
			return nil, err
		}
		return erc20BurnFrom[H]{from, amount}, nil
	}
}

func (c erc20BurnFrom[H]) exec(h H) ([]byte, error) {
	if err := erc20Spend(h, c.from, c.amount); err != nil {
		return nil, err
	}
	if err := h.burn(c.from, c.amount); err != nil {
		return nil, err
	}
	return packBool(true), nil
}

type erc20Name[H erc20Handler] struct{}

func (erc20Name[H]) exec(h H) ([]byte, error) { return packString(h.collection().Name), nil }

type erc20Symbol[H erc20Handler] struct{}

func (erc20Symbol[H]) exec(h H) ([]byte, error) { return packString(h.symbol()), nil }

type erc20Decimals[H erc20Handler] struct{}

func (erc20Decimals[H]) exec(h H) ([]byte, error) { return packUint64(uint64(h.decimals())), nil }
