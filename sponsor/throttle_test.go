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

package sponsor

import (
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payer = account.HexToKey("0x5905")

func newSponsored(t *testing.T, limits collection.Limits) (*Throttle, *collection.Collection) {
	t.Helper()
	db := state.New(memorydb.New())
	coll := &collection.Collection{
		Kind:        collection.NonFungible,
		Sponsorship: collection.Sponsorship{State: collection.SponsorConfirmed, Sponsor: payer},
		Limits:      limits,
	}
	_, err := db.CreateCollection(coll)
	require.NoError(t, err)
	return NewThrottle(db, DefaultTransferTimeout, DefaultApproveTimeout), coll
}

func TestThrottleWindow(t *testing.T) {
	throttle, coll := newSponsored(t, collection.Limits{})
	subject := TokenSubject(7)
	const start = 100

	sponsor, ok := throttle.Evaluate(coll, Transfer, subject, start)
	require.True(t, ok)
	assert.Equal(t, payer, sponsor)

	for block := uint64(start + 1); block <= start+uint64(DefaultTransferTimeout); block++ {
		if _, ok := throttle.Evaluate(coll, Transfer, subject, block); ok {
			t.Fatalf("block %d: sponsored inside the window of block %d", block, start)
		}
	}
	next := uint64(start + DefaultTransferTimeout + 1)
	_, ok = throttle.Evaluate(coll, Transfer, subject, next)
	require.True(t, ok, "window must reopen at N+timeout+1")

	// The grant at next restarted the window.
	_, ok = throttle.Evaluate(coll, Transfer, subject, next+1)
	assert.False(t, ok)
}

func TestThrottleKeying(t *testing.T) {
	throttle, coll := newSponsored(t, collection.Limits{})

	_, ok := throttle.Evaluate(coll, Transfer, TokenSubject(1), 10)
	require.True(t, ok)
	_, ok = throttle.Evaluate(coll, Transfer, TokenSubject(2), 10)
	assert.True(t, ok, "subjects are throttled independently")
	_, ok = throttle.Evaluate(coll, Approve, TokenSubject(1), 10)
	assert.True(t, ok, "classes are throttled independently")

	a, b := account.HexToKey("0x0a"), account.HexToKey("0x0b")
	assert.NotEqual(t, PieceSubject(1, a), PieceSubject(1, b))
	assert.NotEqual(t, PieceSubject(1, a), PieceSubject(2, a))
	assert.Len(t, AccountSubject(a), account.KeyLength)
}

func TestThrottleCollectionTimeout(t *testing.T) {
	throttle, coll := newSponsored(t, collection.Limits{
		SponsorApproveTimeout: collection.Timeout{Set: true, Blocks: 0},
	})
	assert.Equal(t, uint32(0), throttle.Timeout(coll, Approve))
	assert.Equal(t, DefaultTransferTimeout, throttle.Timeout(coll, Transfer))

	// A zero window only rejects a second call in the same block.
	_, ok := throttle.Evaluate(coll, Approve, TokenSubject(1), 1)
	require.True(t, ok)
	_, ok = throttle.Evaluate(coll, Approve, TokenSubject(1), 1)
	assert.False(t, ok)
	_, ok = throttle.Evaluate(coll, Approve, TokenSubject(1), 2)
	assert.True(t, ok)
}

func TestThrottleNeedsConfirmedSponsor(t *testing.T) {
	for _, st := range []collection.SponsorState{collection.SponsorDisabled, collection.SponsorUnconfirmed} {
		throttle, coll := newSponsored(t, collection.Limits{})
		coll.Sponsorship.State = st
		if _, ok := throttle.Evaluate(coll, Transfer, TokenSubject(1), 1); ok {
			t.Errorf("sponsor state %d: call sponsored", st)
		}
		// Nothing was recorded, so confirming the sponsor grants immediately.
		coll.Sponsorship.State = collection.SponsorConfirmed
		if _, ok := throttle.Evaluate(coll, Transfer, TokenSubject(1), 1); !ok {
			t.Errorf("sponsor state %d: denial consumed the slot", st)
		}
	}
}

func TestThrottleMeters(t *testing.T) {
	enabled, granted, denied := metrics.Enabled, grantedMeter, deniedMeter
	defer func() { metrics.Enabled, grantedMeter, deniedMeter = enabled, granted, denied }()
	metrics.Enabled = true
	reg := metrics.NewRegistry()
	registerMeters(reg)

	throttle, coll := newSponsored(t, collection.Limits{})
	for block := uint64(1); block <= 3; block++ {
		throttle.Evaluate(coll, Transfer, TokenSubject(1), block)
	}
	count := func(name string) int64 {
		return reg.Get(name).(metrics.Meter).Snapshot().Count()
	}
	assert.Equal(t, int64(1), count("bridge/sponsor/granted"))
	assert.Equal(t, int64(2), count("bridge/sponsor/denied"))
}
