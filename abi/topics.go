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
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// MakeTopic converts an indexed event argument into its topic.
//
// Static values are stored the way they are ABI encoded in a head slot.
// Strings and byte strings are replaced by their Keccak256 hash.
func MakeTopic(t Type, v any) (common.Hash, error) {
	var topic common.Hash
	switch t.T {
	case UintTy:
		switch x := v.(type) {
		case uint8:
			topic[common.HashLength-1] = x
		case uint16:
			binary.BigEndian.PutUint16(topic[common.HashLength-2:], x)
		case uint32:
			binary.BigEndian.PutUint32(topic[common.HashLength-4:], x)
		case uint64:
			binary.BigEndian.PutUint64(topic[common.HashLength-8:], x)
		case *uint256.Int:
			if x == nil {
				return topic, mismatch(t, v)
			}
			topic = x.Bytes32()
		default:
			return topic, mismatch(t, v)
		}
	case BoolTy:
		b, ok := v.(bool)
		if !ok {
			return topic, mismatch(t, v)
		}
		if b {
			topic[common.HashLength-1] = 1
		}
	case AddressTy:
		a, ok := v.(common.Address)
		if !ok {
			return topic, mismatch(t, v)
		}
		copy(topic[common.HashLength-common.AddressLength:], a[:])
	case FixedBytesTy:
		switch x := v.(type) {
		case common.Hash:
			topic = x
		case []byte:
			copy(topic[:], x)
		default:
			return topic, mismatch(t, v)
		}
	case StringTy:
		s, ok := v.(string)
		if !ok {
			return topic, mismatch(t, v)
		}
		topic = crypto.Keccak256Hash([]byte(s))
	case BytesTy:
		b, ok := v.([]byte)
		if !ok {
			return topic, mismatch(t, v)
		}
		topic = crypto.Keccak256Hash(b)
	default:
		return topic, fmt.Errorf("%w: indexed %v", errUnsupported, t)
	}
	return topic, nil
}
