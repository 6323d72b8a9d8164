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

// Package account unifies native ledger keys and Ethereum addresses.
package account

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ErrAmbiguousCross is returned when a cross account tuple carries both an
// address and a native key, or neither.
var ErrAmbiguousCross = errors.New("cross account must set exactly one of address and key")

// Canonical names the representation a CrossAccountId was built from.
type Canonical uint8

const (
	NativeCanonical Canonical = iota
	AddressCanonical
)

// CrossAccountId is an account seen from both identity spaces. It keeps the
// representation it was built from and caches the derived one.
//
// Two ids are equal if their keys are equal, unless either of them is
// address canonical, in which case their addresses are compared instead.
// Many keys truncate to the same address, so an address canonical id equals
// every native id whose key starts with that address. Ordering always uses
// the key.
type CrossAccountId struct {
	canonical Canonical
	key       Key
	address   common.Address
}

// FromKey builds a native canonical id.
func FromKey(k Key) CrossAccountId {
	return CrossAccountId{canonical: NativeCanonical, key: k, address: KeyToAddress(k)}
}

// FromAddress builds an address canonical id.
func FromAddress(a common.Address) CrossAccountId {
	return CrossAccountId{canonical: AddressCanonical, key: AddressToKey(a), address: a}
}

// FromEthCross builds an id from the (address,uint256) tuple used by cross
// aware contract methods. Exactly one of the two fields must be non-zero.
func FromEthCross(eth common.Address, sub *uint256.Int) (CrossAccountId, error) {
	hasSub := sub != nil && !sub.IsZero()
	switch {
	case eth != (common.Address{}) && !hasSub:
		return FromAddress(eth), nil
	case eth == (common.Address{}) && hasSub:
		return FromKey(Key(sub.Bytes32())), nil
	}
	return CrossAccountId{}, ErrAmbiguousCross
}

// ToEthCross is the inverse of FromEthCross.
func (c CrossAccountId) ToEthCross() (common.Address, *uint256.Int) {
	if c.canonical == AddressCanonical {
		return c.address, new(uint256.Int)
	}
	return common.Address{}, c.key.Uint256()
}

// Canonical returns the representation c was built from.
func (c CrossAccountId) Canonical() Canonical { return c.canonical }

// IsAddressCanonical reports whether c was built from an address.
func (c CrossAccountId) IsAddressCanonical() bool { return c.canonical == AddressCanonical }

// Key returns the native key, derived if c is address canonical.
func (c CrossAccountId) Key() Key { return c.key }

// Address returns the address, derived if c is native canonical.
func (c CrossAccountId) Address() common.Address { return c.address }

// IsZero reports whether c is the zero value of its canonical space.
func (c CrossAccountId) IsZero() bool {
	if c.canonical == AddressCanonical {
		return c.address == common.Address{}
	}
	return c.key.IsZero()
}

// Equal compares two ids. See the type documentation for the rule.
func (c CrossAccountId) Equal(other CrossAccountId) bool {
	if c.canonical == AddressCanonical || other.canonical == AddressCanonical {
		return c.address == other.address
	}
	return c.key == other.key
}

// Cmp orders ids by their native key.
func (c CrossAccountId) Cmp(other CrossAccountId) int {
	return c.key.Cmp(other.key)
}

// String implements fmt.Stringer.
func (c CrossAccountId) String() string {
	if c.canonical == AddressCanonical {
		return fmt.Sprintf("eth:%s", c.address.Hex())
	}
	return fmt.Sprintf("native:%s", c.key.Hex())
}

// SortCrossAccountIds sorts ids by native key.
func SortCrossAccountIds(ids []CrossAccountId) {
	sort.SliceStable(ids, func(i, j int) bool { return ids[i].Cmp(ids[j]) < 0 })
}
