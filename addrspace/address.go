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

// Package addrspace maps collections and tokens onto synthetic contract
// addresses.
//
// A collection address is a 16 byte prefix followed by the big-endian
// collection id. A token address is a 12 byte prefix followed by the
// big-endian collection and token ids. The prefixes differ in their first
// byte, so an address belongs to at most one family.
package addrspace

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ledgerbridge/evmbridge/collection"
)

var (
	collectionPrefix = common.FromHex("0x17c4e6453cc49aaaaeaca894e6d9683e")
	tokenPrefix      = common.FromHex("0xf8238ccfff8ed887463fd5e0")
)

// Target is a decoded synthetic address.
type Target struct {
	Collection collection.ID
	Token      collection.TokenID
	IsToken    bool
}

func (t Target) String() string {
	if t.IsToken {
		return fmt.Sprintf("collection %d token %d", t.Collection, t.Token)
	}
	return fmt.Sprintf("collection %d", t.Collection)
}

// Address returns the synthetic address of the target.
func (t Target) Address() common.Address {
	if t.IsToken {
		return TokenAddress(t.Collection, t.Token)
	}
	return CollectionAddress(t.Collection)
}

// CollectionAddress returns the address of a collection.
func CollectionAddress(id collection.ID) common.Address {
	var a common.Address
	copy(a[:], collectionPrefix)
	binary.BigEndian.PutUint32(a[16:], uint32(id))
	return a
}

// TokenAddress returns the address of a single token.
func TokenAddress(id collection.ID, token collection.TokenID) common.Address {
	var a common.Address
	copy(a[:], tokenPrefix)
	binary.BigEndian.PutUint32(a[12:], uint32(id))
	binary.BigEndian.PutUint32(a[16:], uint32(token))
	return a
}

// DecodeCollection returns the collection id of a collection address.
func DecodeCollection(a common.Address) (collection.ID, bool) {
	if !bytes.HasPrefix(a[:], collectionPrefix) {
		return 0, false
	}
	return collection.ID(binary.BigEndian.Uint32(a[16:])), true
}

// DecodeToken returns the collection and token id of a token address.
func DecodeToken(a common.Address) (collection.ID, collection.TokenID, bool) {
	if !bytes.HasPrefix(a[:], tokenPrefix) {
		return 0, 0, false
	}
	return collection.ID(binary.BigEndian.Uint32(a[12:])), collection.TokenID(binary.BigEndian.Uint32(a[16:])), true
}

// Decode resolves an address into a target. The more specific token family
// is tried before the collection family.
func Decode(a common.Address) (Target, bool) {
	if c, t, ok := DecodeToken(a); ok {
		return Target{Collection: c, Token: t, IsToken: true}, true
	}
	if c, ok := DecodeCollection(a); ok {
		return Target{Collection: c}, true
	}
	return Target{}, false
}

// IsReserved reports whether a lies in the synthetic address space, whether
// or not anything lives there.
func IsReserved(a common.Address) bool {
	_, ok := Decode(a)
	return ok
}
