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
	"math"

	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
)

// Token bookkeeping shared by non-fungible and refungible collections.

func (s *StateDB) readTokenList(key []byte) []collection.TokenID {
	var list []collection.TokenID
	s.readRLP(key, &list)
	return list
}

func (s *StateDB) writeTokenList(key []byte, list []collection.TokenID) {
	if len(list) == 0 {
		s.del(key)
		return
	}
	s.writeRLP(key, list)
}

func (s *StateDB) addToList(key []byte, token collection.TokenID) {
	s.writeTokenList(key, append(s.readTokenList(key), token))
}

// removeFromList drops token by moving the last element into its place.
func (s *StateDB) removeFromList(key []byte, token collection.TokenID) {
	list := s.readTokenList(key)
	for i, t := range list {
		if t == token {
			list[i] = list[len(list)-1]
			s.writeTokenList(key, list[:len(list)-1])
			return
		}
	}
}

// TokensMinted returns the highest token id minted in a collection.
func (s *StateDB) TokensMinted(id collection.ID) collection.TokenID {
	var last uint32
	s.readRLP(tokensMintedKey(id), &last)
	return collection.TokenID(last)
}

func (s *StateDB) nextTokenID(id collection.ID) (collection.TokenID, error) {
	last := s.TokensMinted(id)
	if last == math.MaxUint32 {
		return 0, ErrTokenIDOverflow
	}
	next := last + 1
	s.writeRLP(tokensMintedKey(id), uint32(next))
	return next, nil
}

// CollectionTokens lists the live tokens of a collection.
func (s *StateDB) CollectionTokens(id collection.ID) []collection.TokenID {
	return s.readTokenList(tokenListKey(id))
}

// AccountTokens lists the tokens owner holds in a collection. For refungible
// collections a token is listed when owner holds any of its pieces.
func (s *StateDB) AccountTokens(id collection.ID, owner account.Key) []collection.TokenID {
	return s.readTokenList(ownedTokensKey(id, owner))
}

// AccountBalance returns the number of tokens owner holds in a collection.
func (s *StateDB) AccountBalance(id collection.ID, owner account.Key) uint32 {
	return uint32(len(s.AccountTokens(id, owner)))
}

// TokenOwner returns the owner of a non-fungible token.
func (s *StateDB) TokenOwner(id collection.ID, token collection.TokenID) (account.Key, bool) {
	var owner account.Key
	ok := s.readRLP(tokenOwnerKey(id, token), &owner)
	return owner, ok
}

// TokenApproved returns the account approved to move a token.
func (s *StateDB) TokenApproved(id collection.ID, token collection.TokenID) (account.Key, bool) {
	var approved account.Key
	ok := s.readRLP(tokenApprovalKey(id, token), &approved)
	return approved, ok
}

// ApproveToken sets the approved account of a token. A zero key clears it.
func (s *StateDB) ApproveToken(id collection.ID, token collection.TokenID, approved account.Key) {
	if approved.IsZero() {
		s.del(tokenApprovalKey(id, token))
		return
	}
	s.writeRLP(tokenApprovalKey(id, token), approved)
}

// IsOperator reports whether operator may move every token of owner.
func (s *StateDB) IsOperator(id collection.ID, owner, operator account.Key) bool {
	return len(s.get(operatorKey(id, owner, operator))) != 0
}

// SetOperator grants or revokes operator rights.
func (s *StateDB) SetOperator(id collection.ID, owner, operator account.Key, approved bool) {
	if approved {
		s.put(operatorKey(id, owner, operator), []byte{1})
	} else {
		s.del(operatorKey(id, owner, operator))
	}
}

// TokenURI returns the metadata URI of a token.
func (s *StateDB) TokenURI(id collection.ID, token collection.TokenID) string {
	return string(s.get(tokenURIKey(id, token)))
}

// SetTokenURI replaces the metadata URI of a token.
func (s *StateDB) SetTokenURI(id collection.ID, token collection.TokenID, uri string) {
	if uri == "" {
		s.del(tokenURIKey(id, token))
		return
	}
	s.put(tokenURIKey(id, token), []byte(uri))
}

// MintToken creates a non-fungible token owned by to.
func (s *StateDB) MintToken(id collection.ID, to account.Key) (collection.TokenID, error) {
	token, err := s.nextTokenID(id)
	if err != nil {
		return 0, err
	}
	s.writeRLP(tokenOwnerKey(id, token), to)
	s.addToList(tokenListKey(id), token)
	s.addToList(ownedTokensKey(id, to), token)
	return token, nil
}

// TransferToken moves a non-fungible token from its owner to another
// account. Approval is cleared.
func (s *StateDB) TransferToken(id collection.ID, token collection.TokenID, from, to account.Key) error {
	owner, ok := s.TokenOwner(id, token)
	if !ok {
		return ErrTokenNotFound
	}
	if owner != from {
		return ErrNotOwner
	}
	s.ApproveToken(id, token, account.Key{})
	if from == to {
		return nil
	}
	s.writeRLP(tokenOwnerKey(id, token), to)
	s.removeFromList(ownedTokensKey(id, from), token)
	s.addToList(ownedTokensKey(id, to), token)
	return nil
}

// BurnToken destroys a non-fungible token held by from.
func (s *StateDB) BurnToken(id collection.ID, token collection.TokenID, from account.Key) error {
	owner, ok := s.TokenOwner(id, token)
	if !ok {
		return ErrTokenNotFound
	}
	if owner != from {
		return ErrNotOwner
	}
	s.del(tokenOwnerKey(id, token))
	s.ApproveToken(id, token, account.Key{})
	s.SetTokenURI(id, token, "")
	s.removeFromList(tokenListKey(id), token)
	s.removeFromList(ownedTokensKey(id, from), token)
	return nil
}
