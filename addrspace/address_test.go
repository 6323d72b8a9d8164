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

package addrspace

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ledgerbridge/evmbridge/collection"
)

func TestKnownAddresses(t *testing.T) {
	if have, want := CollectionAddress(1), common.HexToAddress("0x17c4e6453cc49aaaaeaca894e6d9683e00000001"); have != want {
		t.Fatalf("collection address %x, want %x", have, want)
	}
	if have, want := TokenAddress(1, 2), common.HexToAddress("0xf8238ccfff8ed887463fd5e00000000100000002"); have != want {
		t.Fatalf("token address %x, want %x", have, want)
	}
	if IsReserved(common.HexToAddress("0x1111111111111111111111111111111111111111")) {
		t.Fatal("plain address reported reserved")
	}
}

func TestDisjointFamilies(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ids := []uint32{0, 1, 2, 0xff, 0x17c4e645, 0xf8238ccf, math.MaxUint32}
	for i := 0; i < 200; i++ {
		ids = append(ids, rng.Uint32())
	}
	for _, c := range ids {
		for _, tok := range ids[:16] {
			pair := TokenAddress(collection.ID(c), collection.TokenID(tok))
			if _, ok := DecodeCollection(pair); ok {
				t.Fatalf("token address %x decodes as a collection", pair)
			}
			dc, dt, ok := DecodeToken(pair)
			if !ok || dc != collection.ID(c) || dt != collection.TokenID(tok) {
				t.Fatalf("token address %x decoded to %d/%d/%v", pair, dc, dt, ok)
			}
			target, ok := Decode(pair)
			if !ok || !target.IsToken || target.Address() != pair {
				t.Fatalf("token address %x resolved to %v", pair, target)
			}
		}
		single := CollectionAddress(collection.ID(c))
		if _, _, ok := DecodeToken(single); ok {
			t.Fatalf("collection address %x decodes as a token", single)
		}
		dc, ok := DecodeCollection(single)
		if !ok || dc != collection.ID(c) {
			t.Fatalf("collection address %x decoded to %d/%v", single, dc, ok)
		}
		target, ok := Decode(single)
		if !ok || target.IsToken || target.Address() != single {
			t.Fatalf("collection address %x resolved to %v", single, target)
		}
	}
}
