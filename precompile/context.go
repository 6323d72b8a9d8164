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
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/addrspace"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/state"
)

var crossOwnerOfSelector = abi.SelectorOf("crossOwnerOf(uint256)")

// Context is the execution frame of one call. Frames of nested calls share
// the budget of the top level call; each has its own log accumulator.
type Context struct {
	router *Router
	state  StateDB

	caller account.CrossAccountId
	self   common.Address
	value  *uint256.Int
	block  uint64

	static bool // mutating methods are rejected
	depth  int
	budget *int

	sponsorship bool         // the caller asked for a sponsor
	sponsor     *account.Key // set once the throttle granted it

	logs []*types.Log
}

// Caller returns the account that made the call.
func (ctx *Context) Caller() account.CrossAccountId { return ctx.caller }

// Address returns the address being called.
func (ctx *Context) Address() common.Address { return ctx.self }

// Depth returns the nesting depth of the frame, zero for the top level.
func (ctx *Context) Depth() int { return ctx.depth }

// Logs returns the events emitted so far in this frame.
func (ctx *Context) Logs() []*types.Log { return ctx.logs }

// emit records ev as emitted by the called address.
func (ctx *Context) emit(ev abi.Event, values ...any) error {
	return ctx.emitFrom(ctx.self, ev, values...)
}

// emitFrom records ev as emitted by another synthetic address, such as the
// token address of a refungible token.
func (ctx *Context) emitFrom(addr common.Address, ev abi.Event, values ...any) error {
	l, err := ev.Encode(addr, values...)
	if err != nil {
		return err
	}
	ctx.logs = append(ctx.logs, l)
	return nil
}

// StaticCall dispatches a read only call to another synthetic address. It
// consumes one unit of the call budget and fails with ErrBudgetExhausted
// once none is left.
func (ctx *Context) StaticCall(to common.Address, input []byte) ([]byte, error) {
	if *ctx.budget <= 0 {
		return nil, ErrBudgetExhausted
	}
	*ctx.budget--
	meters.nested.Mark(1)

	target, coll, ok := ctx.router.resolve(to)
	if !ok {
		return nil, errNotContract
	}
	child := &Context{
		router: ctx.router,
		state:  ctx.state,
		caller: account.FromAddress(ctx.self),
		self:   to,
		value:  new(uint256.Int),
		block:  ctx.block,
		static: true,
		depth:  ctx.depth + 1,
		budget: ctx.budget,
	}
	out, err := ctx.router.execute(child, target, coll, input)
	if err != nil {
		return nil, err
	}
	ctx.logs = append(ctx.logs, child.logs...)
	return out, nil
}

// requireCollectionOwner fails unless the caller owns coll.
func (ctx *Context) requireCollectionOwner(coll *collection.Collection) error {
	if !ctx.caller.Equal(crossOf(coll.Owner)) {
		return ErrNotCollectionOwner
	}
	return nil
}

// crossOf presents a stored key the way callers see it: keys expanded from
// an address are address canonical.
func crossOf(k account.Key) account.CrossAccountId {
	addr := account.KeyToAddress(k)
	if account.AddressToKey(addr) == k {
		return account.FromAddress(addr)
	}
	return account.FromKey(k)
}

// rootOwner follows token ownership upwards from id until it reaches an
// account that is not a token. Every hop is a nested ownerOf dispatch.
// Reaching moving, the token being transferred, is a cycle.
func (ctx *Context) rootOwner(id account.CrossAccountId, moving *addrspace.Target) (account.CrossAccountId, error) {
	for {
		if !id.IsAddressCanonical() {
			return id, nil
		}
		parent, token, ok := addrspace.DecodeToken(id.Address())
		if !ok {
			return id, nil
		}
		if moving != nil && moving.IsToken && moving.Collection == parent && moving.Token == token {
			return account.CrossAccountId{}, ErrNestingCycle
		}
		w := abi.NewCallWriter(crossOwnerOfSelector)
		w.WriteUint32(uint32(token))
		out, err := ctx.StaticCall(addrspace.CollectionAddress(parent), w.Finish())
		switch {
		case errors.Is(err, errNotContract), errors.Is(err, ErrUnknownSelector), errors.Is(err, state.ErrTokenNotFound):
			return account.CrossAccountId{}, ErrNotNestable
		case err != nil:
			return account.CrossAccountId{}, err
		}
		r := abi.NewReader(out)
		addr, err := r.ReadAddress()
		if err != nil {
			return account.CrossAccountId{}, err
		}
		sub, err := r.ReadUint256()
		if err != nil {
			return account.CrossAccountId{}, err
		}
		if id, err = account.FromEthCross(addr, sub); err != nil {
			// A refungible token split between holders has no owner.
			return account.FromAddress(common.Address{}), nil
		}
	}
}

// checkNestingTarget verifies that a transfer to id is possible when id is
// a token address: the token must exist and must not be moving itself.
func (ctx *Context) checkNestingTarget(id account.CrossAccountId, moving *addrspace.Target) error {
	_, err := ctx.rootOwner(id, moving)
	return err
}

// owns reports whether the caller is owner, directly or through the tokens
// nested under it.
func (ctx *Context) owns(owner account.CrossAccountId) (bool, error) {
	if ctx.caller.Equal(owner) {
		return true, nil
	}
	root, err := ctx.rootOwner(owner, nil)
	if err != nil {
		return false, err
	}
	return ctx.caller.Equal(root), nil
}
