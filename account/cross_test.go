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

package account

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddr = common.HexToAddress("0x5c0d2e6f3a9b8c7d6e5f4a3b2c1d0e9f8a7b6c5d")

func TestDerivations(t *testing.T) {
	k := AddressToKey(testAddr)
	assert.Equal(t, testAddr[:], k[:20])
	assert.Equal(t, make([]byte, 12), k[20:])
	assert.Equal(t, testAddr, KeyToAddress(k))

	full := HexToKey("0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	assert.Equal(t, common.HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314"), KeyToAddress(full))
}

// A key built by zero-extending an address and a key that only shares its
// first 20 bytes with it derive the same address.
func collidingKeys() (Key, Key) {
	k1 := AddressToKey(testAddr)
	k2 := k1
	k2[KeyLength-1] = 0x01
	return k1, k2
}

func TestEqualityAsymmetry(t *testing.T) {
	k1, k2 := collidingKeys()
	var (
		native1 = FromKey(k1)
		native2 = FromKey(k2)
		eth     = FromAddress(testAddr)
	)
	require.Equal(t, native1.Address(), native2.Address())
	require.Equal(t, testAddr, native2.Address())

	// Native against native compares keys.
	assert.False(t, native1.Equal(native2))
	assert.True(t, native1.Equal(FromKey(k1)))

	// K1 expands back from the address: equal on both rules.
	assert.True(t, native1.Equal(eth))
	assert.True(t, eth.Equal(native1))
	assert.Zero(t, native1.Cmp(eth))

	// K2 does not expand back to the address, yet an address canonical side
	// degrades equality to the address.
	assert.NotEqual(t, k2, eth.Key())
	assert.True(t, native2.Equal(eth))
	assert.True(t, eth.Equal(native2))

	// Ordering ignores the canonical side and stays on keys.
	assert.Equal(t, -1, eth.Cmp(native2))
	assert.Equal(t, 1, native2.Cmp(eth))

	// Two address canonical ids compare on addresses.
	other := FromAddress(common.HexToAddress("0x01"))
	assert.False(t, eth.Equal(other))
	assert.True(t, eth.Equal(FromAddress(testAddr)))
}

func TestSortCrossAccountIds(t *testing.T) {
	k1, k2 := collidingKeys()
	ids := []CrossAccountId{FromKey(k2), FromAddress(common.HexToAddress("0x01")), FromKey(k1)}
	SortCrossAccountIds(ids)
	for i := 1; i < len(ids); i++ {
		require.LessOrEqual(t, ids[i-1].Cmp(ids[i]), 0)
	}
	assert.Equal(t, common.HexToAddress("0x01"), ids[0].Address())
	assert.Equal(t, k2, ids[2].Key())
}

func TestEthCross(t *testing.T) {
	id, err := FromEthCross(testAddr, nil)
	require.NoError(t, err)
	assert.True(t, id.IsAddressCanonical())
	addr, sub := id.ToEthCross()
	assert.Equal(t, testAddr, addr)
	assert.True(t, sub.IsZero())

	_, k2 := collidingKeys()
	id, err = FromEthCross(common.Address{}, k2.Uint256())
	require.NoError(t, err)
	assert.False(t, id.IsAddressCanonical())
	assert.Equal(t, k2, id.Key())
	addr, sub = id.ToEthCross()
	assert.Equal(t, common.Address{}, addr)
	assert.Equal(t, k2.Uint256(), sub)

	_, err = FromEthCross(testAddr, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrAmbiguousCross)
	_, err = FromEthCross(common.Address{}, new(uint256.Int))
	assert.ErrorIs(t, err, ErrAmbiguousCross)
}

func TestKeyText(t *testing.T) {
	_, k2 := collidingKeys()
	enc, err := k2.MarshalText()
	require.NoError(t, err)
	var dec Key
	require.NoError(t, dec.UnmarshalText(enc))
	assert.Equal(t, k2, dec)
	assert.Error(t, dec.UnmarshalText([]byte("0x01")))
}
