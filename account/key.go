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
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// KeyLength is the size of a native account key.
const KeyLength = 32

// Key is a native ledger account identifier.
type Key [KeyLength]byte

// BytesToKey sets b to a key. If b is larger than KeyLength, b is cropped
// from the left.
func BytesToKey(b []byte) Key {
	var k Key
	if len(b) > KeyLength {
		b = b[len(b)-KeyLength:]
	}
	copy(k[KeyLength-len(b):], b)
	return k
}

// HexToKey returns the key with byte values of s.
func HexToKey(s string) Key { return BytesToKey(common.FromHex(s)) }

// Bytes returns the byte representation of the key.
func (k Key) Bytes() []byte { return k[:] }

// Hex returns the 0x-prefixed hex form of the key.
func (k Key) Hex() string { return hexutil.Encode(k[:]) }

// String implements fmt.Stringer.
func (k Key) String() string { return k.Hex() }

// Cmp compares two keys bytewise.
func (k Key) Cmp(other Key) int { return bytes.Compare(k[:], other[:]) }

// IsZero reports whether every byte of the key is zero.
func (k Key) IsZero() bool { return k == Key{} }

// Uint256 interprets the key as a big-endian integer.
func (k Key) Uint256() *uint256.Int { return new(uint256.Int).SetBytes32(k[:]) }

// MarshalText returns the hex representation of k.
func (k Key) MarshalText() ([]byte, error) {
	return hexutil.Bytes(k[:]).MarshalText()
}

// UnmarshalText parses a key in hex syntax.
func (k *Key) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Key", input, k[:])
}

// KeyToAddress derives the address of a native key: its first 20 bytes.
func KeyToAddress(k Key) common.Address {
	var a common.Address
	copy(a[:], k[:common.AddressLength])
	return a
}

// AddressToKey derives the native key of an address by zero-extension.
func AddressToKey(a common.Address) Key {
	var k Key
	copy(k[:], a[:])
	return k
}
