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

// Package sponsor limits how often a collection sponsor pays for calls on
// the same subject.
package sponsor

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
)

// Protocol wide throttle windows, in blocks, used when a collection does not
// set its own.
const (
	DefaultTransferTimeout uint32 = 5
	DefaultApproveTimeout  uint32 = 5
)

var (
	grantedMeter metrics.Meter
	deniedMeter  metrics.Meter
)

func init() { registerMeters(nil) }

func registerMeters(r metrics.Registry) {
	grantedMeter = metrics.NewRegisteredMeter("bridge/sponsor/granted", r)
	deniedMeter = metrics.NewRegisteredMeter("bridge/sponsor/denied", r)
}

// Class groups the calls that share a throttle window.
type Class uint8

const (
	// Transfer covers every call moving assets: transfer, transferFrom,
	// safeTransferFrom and their cross account forms.
	Transfer Class = iota
	// Approve covers approve and setApprovalForAll.
	Approve
)

func (c Class) String() string {
	switch c {
	case Transfer:
		return "transfer"
	case Approve:
		return "approve"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Store keeps the block of the last sponsored call per collection and
// throttle key.
type Store interface {
	SponsoredAt(id collection.ID, key []byte) (uint64, bool)
	SetSponsoredAt(id collection.ID, key []byte, block uint64)
}

// Throttle decides whether the sponsor of a collection pays for a call.
type Throttle struct {
	store           Store
	transferTimeout uint32
	approveTimeout  uint32
}

// NewThrottle creates a throttle over store with the given protocol default
// windows.
func NewThrottle(store Store, transferTimeout, approveTimeout uint32) *Throttle {
	return &Throttle{
		store:           store,
		transferTimeout: transferTimeout,
		approveTimeout:  approveTimeout,
	}
}

// Timeout returns the throttle window of a class for coll.
func (t *Throttle) Timeout(coll *collection.Collection, class Class) uint32 {
	if class == Approve {
		return coll.Limits.SponsorApproveTimeout.Or(t.approveTimeout)
	}
	return coll.Limits.SponsorTransferTimeout.Or(t.transferTimeout)
}

// Evaluate decides whether the sponsor of coll pays for a call of the given
// class on subject at block. On success the block is recorded and the
// sponsor returned. A denial is a normal outcome: the caller pays.
func (t *Throttle) Evaluate(coll *collection.Collection, class Class, subject []byte, block uint64) (account.Key, bool) {
	sponsor, ok := coll.ConfirmedSponsor()
	if !ok {
		return account.Key{}, false
	}
	key := append([]byte{byte(class)}, subject...)
	if last, ok := t.store.SponsoredAt(coll.ID, key); ok {
		if block <= last+uint64(t.Timeout(coll, class)) {
			deniedMeter.Mark(1)
			log.Trace("Sponsorship throttled", "collection", coll.ID, "class", class, "last", last, "block", block)
			return account.Key{}, false
		}
	}
	t.store.SetSponsoredAt(coll.ID, key, block)
	grantedMeter.Mark(1)
	log.Trace("Sponsored call", "collection", coll.ID, "class", class, "sponsor", sponsor, "block", block)
	return sponsor, true
}

// TokenSubject is the throttle subject of a non-fungible token.
func TokenSubject(token collection.TokenID) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(token))
}

// AccountSubject is the throttle subject of a fungible account.
func AccountSubject(owner account.Key) []byte {
	return owner.Bytes()
}

// PieceSubject is the throttle subject of the pieces of a refungible token
// held by owner.
func PieceSubject(token collection.TokenID, owner account.Key) []byte {
	return append(TokenSubject(token), owner[:]...)
}
