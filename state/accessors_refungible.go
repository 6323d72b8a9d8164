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
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
)

// PieceSupply returns the number of pieces a refungible token is split into.
// It is zero for tokens that do not exist.
func (s *StateDB) PieceSupply(id collection.ID, token collection.TokenID) *uint256.Int {
	return s.readUint256(pieceSupplyKey(id, token))
}

// PieceBalance returns the pieces of a token held by owner.
func (s *StateDB) PieceBalance(id collection.ID, token collection.TokenID, owner account.Key) *uint256.Int {
	return s.readUint256(pieceBalanceKey(id, token, owner))
}

// PieceAllowance returns how many pieces spender may move for owner.
func (s *StateDB) PieceAllowance(id collection.ID, token collection.TokenID, owner, spender account.Key) *uint256.Int {
	return s.readUint256(pieceAllowanceKey(id, token, owner, spender))
}

// SetPieceAllowance replaces the piece allowance of spender.
func (s *StateDB) SetPieceAllowance(id collection.ID, token collection.TokenID, owner, spender account.Key, amount *uint256.Int) {
	s.writeUint256(pieceAllowanceKey(id, token, owner, spender), amount)
}

// SpendPieceAllowance lowers the piece allowance of spender by amount.
func (s *StateDB) SpendPieceAllowance(id collection.ID, token collection.TokenID, owner, spender account.Key, amount *uint256.Int) error {
	allowance := s.PieceAllowance(id, token, owner, spender)
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	s.SetPieceAllowance(id, token, owner, spender, allowance.Sub(allowance, amount))
	return nil
}

// PieceHolders lists the accounts holding pieces of a token.
func (s *StateDB) PieceHolders(id collection.ID, token collection.TokenID) []account.Key {
	var holders []account.Key
	s.readRLP(pieceHoldersKey(id, token), &holders)
	return holders
}

// SoleOwner returns the holder of every piece of a token, if there is one.
func (s *StateDB) SoleOwner(id collection.ID, token collection.TokenID) (account.Key, bool) {
	holders := s.PieceHolders(id, token)
	if len(holders) != 1 {
		return account.Key{}, false
	}
	return holders[0], true
}

func (s *StateDB) setPieceBalance(id collection.ID, token collection.TokenID, owner account.Key, balance *uint256.Int) {
	had := !s.PieceBalance(id, token, owner).IsZero()
	s.writeUint256(pieceBalanceKey(id, token, owner), balance)

	switch has := !balance.IsZero(); {
	case has && !had:
		s.writeRLP(pieceHoldersKey(id, token), append(s.PieceHolders(id, token), owner))
		s.addToList(ownedTokensKey(id, owner), token)
	case !has && had:
		holders := s.PieceHolders(id, token)
		for i, h := range holders {
			if h == owner {
				holders = append(holders[:i], holders[i+1:]...)
				break
			}
		}
		if len(holders) == 0 {
			s.del(pieceHoldersKey(id, token))
		} else {
			s.writeRLP(pieceHoldersKey(id, token), holders)
		}
		s.removeFromList(ownedTokensKey(id, owner), token)
	}
}

// MintRefungible creates a token split into pieces, all held by to.
func (s *StateDB) MintRefungible(id collection.ID, to account.Key, pieces *uint256.Int) (collection.TokenID, error) {
	if pieces.IsZero() {
		return 0, ErrZeroPieces
	}
	token, err := s.nextTokenID(id)
	if err != nil {
		return 0, err
	}
	s.writeUint256(pieceSupplyKey(id, token), pieces)
	s.setPieceBalance(id, token, to, pieces)
	s.addToList(tokenListKey(id), token)
	return token, nil
}

// TransferPieces moves pieces of a token between accounts.
func (s *StateDB) TransferPieces(id collection.ID, token collection.TokenID, from, to account.Key, amount *uint256.Int) error {
	if s.PieceSupply(id, token).IsZero() {
		return ErrTokenNotFound
	}
	balance := s.PieceBalance(id, token, from)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to || amount.IsZero() {
		return nil
	}
	s.setPieceBalance(id, token, from, new(uint256.Int).Sub(balance, amount))
	recipient := s.PieceBalance(id, token, to)
	s.setPieceBalance(id, token, to, recipient.Add(recipient, amount))
	return nil
}

// BurnPieces destroys pieces held by from. The token disappears with its
// last piece.
func (s *StateDB) BurnPieces(id collection.ID, token collection.TokenID, from account.Key, amount *uint256.Int) error {
	supply := s.PieceSupply(id, token)
	if supply.IsZero() {
		return ErrTokenNotFound
	}
	balance := s.PieceBalance(id, token, from)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	s.setPieceBalance(id, token, from, new(uint256.Int).Sub(balance, amount))
	supply.Sub(supply, amount)
	s.writeUint256(pieceSupplyKey(id, token), supply)
	if supply.IsZero() {
		s.SetTokenURI(id, token, "")
		s.removeFromList(tokenListKey(id), token)
	}
	return nil
}

// Repartition changes the number of pieces a token is split into. The
// owner must hold every piece.
func (s *StateDB) Repartition(id collection.ID, token collection.TokenID, owner account.Key, pieces *uint256.Int) error {
	supply := s.PieceSupply(id, token)
	if supply.IsZero() {
		return ErrTokenNotFound
	}
	if pieces.IsZero() {
		return ErrZeroPieces
	}
	if !s.PieceBalance(id, token, owner).Eq(supply) {
		return ErrNotSoleOwner
	}
	s.writeUint256(pieceSupplyKey(id, token), pieces)
	s.setPieceBalance(id, token, owner, pieces)
	return nil
}
