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

package abi

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SelectorLength is the size of a function selector.
const SelectorLength = 4

// Selector identifies a function: the first four bytes of the Keccak256 hash
// of its canonical signature.
type Selector [SelectorLength]byte

// SelectorOf computes the selector of a canonical signature such as
// "transfer(address,uint256)".
func SelectorOf(sig string) Selector {
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(sig))[:SelectorLength])
	return sel
}

// Hex returns the 0x-prefixed hex form of the selector.
func (s Selector) Hex() string { return hexutil.Encode(s[:]) }

// String implements fmt.Stringer.
func (s Selector) String() string { return s.Hex() }

// Uint32 returns the selector as a big-endian integer.
func (s Selector) Uint32() uint32 {
	return uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])
}

// InterfaceID combines the selectors of an interface into its ERC-165
// identifier.
func InterfaceID(sels ...Selector) Selector {
	var id Selector
	for _, s := range sels {
		for i := range id {
			id[i] ^= s[i]
		}
	}
	return id
}

// SplitCall separates the selector from the arguments of a call payload and
// returns a reader positioned on the first argument.
func SplitCall(input []byte) (Selector, *Reader, error) {
	if len(input) < SelectorLength {
		return Selector{}, nil, decodeErr("selector", 0, ErrNoSelector)
	}
	var sel Selector
	copy(sel[:], input)
	return sel, NewReader(input[SelectorLength:]), nil
}
