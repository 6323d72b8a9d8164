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

// Package precompile routes calls to the synthetic contract addresses of
// native collections and executes them.
package precompile

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/addrspace"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/sponsor"
)

// routerMeters count bridge calls. Meters are only live when metrics were
// enabled at startup with --metrics.
type routerMeters struct {
	calls    metrics.Meter
	failures metrics.Meter
	misses   metrics.Meter
	nested   metrics.Meter
}

func registerMeters(r metrics.Registry) routerMeters {
	return routerMeters{
		calls:    metrics.NewRegisteredMeter("bridge/calls", r),
		failures: metrics.NewRegisteredMeter("bridge/failures", r),
		misses:   metrics.NewRegisteredMeter("bridge/misses", r),
		nested:   metrics.NewRegisteredMeter("bridge/nested", r),
	}
}

var meters = registerMeters(nil)

var (
	// errNotContract is returned by nested calls to addresses that do not
	// route to any collection.
	errNotContract = errors.New("target is not a contract")

	// ErrWriteProtection is returned when a read only frame calls a
	// mutating method.
	ErrWriteProtection = errors.New("write protection")
)

// Router maps synthetic addresses to collection handlers.
type Router struct {
	config   Config
	state    StateDB
	throttle *sponsor.Throttle
}

// New creates a router executing against state.
func New(state StateDB, config Config) *Router {
	config = config.sanitize()
	return &Router{
		config:   config,
		state:    state,
		throttle: sponsor.NewThrottle(state, config.DefaultSponsorTransferTimeout, config.DefaultSponsorApproveTimeout),
	}
}

// IsReserved reports whether addr belongs to the synthetic address space.
// Reserved addresses must never be treated as plain accounts, whether or
// not anything lives there.
func (r *Router) IsReserved(addr common.Address) bool {
	return addrspace.IsReserved(addr)
}

// IsUsed reports whether addr routes to a live collection or token.
func (r *Router) IsUsed(addr common.Address) bool {
	_, _, ok := r.resolve(addr)
	return ok
}

// Code returns the introspection stub reported for addr, nil if the address
// is not in use.
func (r *Router) Code(addr common.Address) []byte {
	target, coll, ok := r.resolve(addr)
	if !ok {
		return nil
	}
	return codeStub(coll.Kind, target.IsToken)
}

// resolve decodes addr and loads the collection behind it. Token addresses
// only route for refungible collections, and only while the token exists.
func (r *Router) resolve(addr common.Address) (addrspace.Target, *collection.Collection, bool) {
	target, ok := addrspace.Decode(addr)
	if !ok {
		return target, nil, false
	}
	coll := r.state.Collection(target.Collection)
	if coll == nil {
		return target, nil, false
	}
	if target.IsToken {
		if coll.Kind != collection.Refungible || r.state.PieceSupply(coll.ID, target.Token).IsZero() {
			return target, nil, false
		}
	}
	return target, coll, true
}

// Call executes msg. If the target does not route to a collection the call
// is not handled and the caller must treat the address as a plain account.
// A handled call that fails returns the error together with a result
// carrying the revert data and the sponsorship decision. Its frame is
// reverted but the throttle record of a granted sponsorship is not, so the
// caller must commit state after a failed call as well.
func (r *Router) Call(msg *Message) (*Result, bool, error) {
	target, coll, ok := r.resolve(msg.To)
	if !ok {
		meters.misses.Mark(1)
		log.Trace("Bridge routing miss", "to", msg.To)
		return nil, false, nil
	}
	meters.calls.Mark(1)

	value := msg.Value
	if value == nil {
		value = new(uint256.Int)
	}
	budget := r.config.CallBudget
	ctx := &Context{
		router:      r,
		state:       r.state,
		caller:      account.FromAddress(msg.Caller),
		self:        msg.To,
		value:       value,
		block:       msg.BlockNumber,
		budget:      &budget,
		sponsorship: msg.RequestSponsorship,
	}
	out, err := r.execute(ctx, target, coll, msg.Input)
	res := &Result{Sponsor: ctx.sponsor}
	if err != nil {
		meters.failures.Mark(1)
		log.Debug("Bridge call failed", "to", msg.To, "collection", coll.ID, "caller", ctx.caller, "err", err)
		res.Output = RevertData(err)
		return res, true, err
	}
	for _, l := range ctx.logs {
		l.BlockNumber = msg.BlockNumber
	}
	res.Output, res.Logs = out, ctx.logs
	return res, true, nil
}

// execute runs one frame: decode, sponsorship at the top level, then the
// handler under a state snapshot that is reverted on failure.
func (r *Router) execute(ctx *Context, target addrspace.Target, coll *collection.Collection, input []byte) ([]byte, error) {
	inv, err := r.bind(ctx, target, coll, input)
	if err != nil {
		return nil, err
	}
	if ctx.static && !inv.view {
		return nil, ErrWriteProtection
	}
	if !ctx.value.IsZero() {
		return nil, ErrValueNotAccepted
	}
	// The throttle slot is taken before execution and survives a failure.
	if ctx.depth == 0 && ctx.sponsorship && inv.throttle != nil {
		class, subject := inv.throttle()
		if payer, ok := r.throttle.Evaluate(coll, class, subject, ctx.block); ok {
			ctx.sponsor = &payer
		}
	}
	log.Trace("Executing bridge call", "to", ctx.self, "method", inv.sig, "depth", ctx.depth)

	snapshot := r.state.Snapshot()
	logs := len(ctx.logs)
	out, err := inv.run()
	if err != nil {
		r.state.RevertToSnapshot(snapshot)
		ctx.logs = ctx.logs[:logs]
		return nil, err
	}
	return out, nil
}

// bind picks the handler for the collection kind and decodes input for it.
func (r *Router) bind(ctx *Context, target addrspace.Target, coll *collection.Collection, input []byte) (*invocation, error) {
	switch coll.Kind {
	case collection.Fungible:
		return fungibleDialect.bind(&fungible{ctx: ctx, coll: coll}, input)
	case collection.NonFungible:
		return nonFungibleDialect.bind(&nonFungible{ctx: ctx, coll: coll}, input)
	case collection.Refungible:
		if target.IsToken {
			return refungibleTokenDialect.bind(&refungibleToken{ctx: ctx, coll: coll, token: target.Token}, input)
		}
		return refungibleDialect.bind(&refungible{ctx: ctx, coll: coll}, input)
	}
	return nil, collection.ErrUnknownKind
}

// codeStub is the code reported for a used address: a revert followed by
// a marker naming what lives there. It is never executed.
func codeStub(kind collection.Kind, token bool) []byte {
	stub := []byte{0x60, 0x00, 0x60, 0x00, 0xfd, 0xfe} // PUSH1 0 PUSH1 0 REVERT INVALID
	if token {
		return append(stub, "refungible-token"...)
	}
	return append(stub, kind.String()...)
}
