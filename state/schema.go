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

package state

import (
	"encoding/binary"

	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
	"golang.org/x/crypto/blake2b"
)

// The fields below define the low level database schema prefixing.
var (
	// lastCollectionKey tracks the highest collection id handed out.
	lastCollectionKey = []byte("LastCollection")

	collectionPrefix = []byte("c") // collectionPrefix + id -> collection RLP

	fungibleBalancePrefix   = []byte("fb") // + id + owner -> uint256
	fungibleAllowancePrefix = []byte("fa") // + id + owner + spender -> uint256
	fungibleSupplyPrefix    = []byte("fs") // + id -> uint256

	tokensMintedPrefix  = []byte("tm") // + id -> last minted token id
	tokenListPrefix     = []byte("tl") // + id -> live token ids
	ownedTokensPrefix   = []byte("to") // + id + owner -> token ids held by owner
	tokenOwnerPrefix    = []byte("no") // + id + token -> owner key
	tokenApprovalPrefix = []byte("na") // + id + token -> approved key
	operatorPrefix      = []byte("op") // + id + owner + operator -> 1
	tokenURIPrefix      = []byte("tu") // + id + token -> uri

	pieceBalancePrefix   = []byte("rb") // + id + token + owner -> uint256
	pieceSupplyPrefix    = []byte("rs") // + id + token -> uint256
	pieceAllowancePrefix = []byte("ra") // + id + token + owner + spender -> uint256
	pieceHoldersPrefix   = []byte("rh") // + id + token -> holder keys

	sponsorRecordPrefix = []byte("sp") // + id + throttle key -> last sponsored block
)

// concatKey builds prefix followed by every part in blake2_128_concat form:
// the 16 byte blake2b digest of the part, then the part itself. Hashing
// spreads keys of sequential ids over the key space while keeping them
// reversible.
func concatKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, p := range parts {
		size += 16 + len(p)
	}
	key := make([]byte, 0, size)
	key = append(key, prefix...)
	for _, p := range parts {
		h, _ := blake2b.New(16, nil)
		h.Write(p)
		key = h.Sum(key)
		key = append(key, p...)
	}
	return key
}

func encodeID(id collection.ID) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(id))
}

func encodeToken(token collection.TokenID) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(token))
}

func collectionKey(id collection.ID) []byte {
	return concatKey(collectionPrefix, encodeID(id))
}

func fungibleBalanceKey(id collection.ID, owner account.Key) []byte {
	return concatKey(fungibleBalancePrefix, encodeID(id), owner[:])
}

func fungibleAllowanceKey(id collection.ID, owner, spender account.Key) []byte {
	return concatKey(fungibleAllowancePrefix, encodeID(id), owner[:], spender[:])
}

func fungibleSupplyKey(id collection.ID) []byte {
	return concatKey(fungibleSupplyPrefix, encodeID(id))
}

func tokensMintedKey(id collection.ID) []byte {
	return concatKey(tokensMintedPrefix, encodeID(id))
}

func tokenListKey(id collection.ID) []byte {
	return concatKey(tokenListPrefix, encodeID(id))
}

func ownedTokensKey(id collection.ID, owner account.Key) []byte {
	return concatKey(ownedTokensPrefix, encodeID(id), owner[:])
}

func tokenOwnerKey(id collection.ID, token collection.TokenID) []byte {
	return concatKey(tokenOwnerPrefix, encodeID(id), encodeToken(token))
}

func tokenApprovalKey(id collection.ID, token collection.TokenID) []byte {
	return concatKey(tokenApprovalPrefix, encodeID(id), encodeToken(token))
}

func operatorKey(id collection.ID, owner, operator account.Key) []byte {
	return concatKey(operatorPrefix, encodeID(id), owner[:], operator[:])
}

func tokenURIKey(id collection.ID, token collection.TokenID) []byte {
	return concatKey(tokenURIPrefix, encodeID(id), encodeToken(token))
}

func pieceBalanceKey(id collection.ID, token collection.TokenID, owner account.Key) []byte {
	return concatKey(pieceBalancePrefix, encodeID(id), encodeToken(token), owner[:])
}

func pieceSupplyKey(id collection.ID, token collection.TokenID) []byte {
	return concatKey(pieceSupplyPrefix, encodeID(id), encodeToken(token))
}

func pieceAllowanceKey(id collection.ID, token collection.TokenID, owner, spender account.Key) []byte {
	return concatKey(pieceAllowancePrefix, encodeID(id), encodeToken(token), owner[:], spender[:])
}

func pieceHoldersKey(id collection.ID, token collection.TokenID) []byte {
	return concatKey(pieceHoldersPrefix, encodeID(id), encodeToken(token))
}

func sponsorRecordKey(id collection.ID, throttleKey []byte) []byte {
	return concatKey(sponsorRecordPrefix, encodeID(id), throttleKey)
}
