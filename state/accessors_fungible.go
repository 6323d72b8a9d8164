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

func (s *StateDB) readUint256(key []byte) *uint256.Int {
	v := new(uint256.Int)
	s.readRLP(key, v)
	return v
}

// writeUint256 stores v, deleting the entry when it is zero.
func (s *StateDB) writeUint256(key []byte, v *uint256.Int) {
	if v.IsZero() {
		s.del(key)
		return
	}
	s.writeRLP(key, v)
}

// FungibleBalance returns the balance of owner.
func (s *StateDB) FungibleBalance(id collection.ID, owner account.Key) *uint256.Int {
	return s.readUint256(fungibleBalanceKey(id, owner))
}

// FungibleSupply returns the amount in circulation.
func (s *StateDB) FungibleSupply(id collection.ID) *uint256.Int {
	return s.readUint256(fungibleSupplyKey(id))
}

// FungibleAllowance returns how much spender may move on behalf of owner.
func (s *StateDB) FungibleAllowance(id collection.ID, owner, spender account.Key) *uint256.Int {
	return s.readUint256(fungibleAllowanceKey(id, owner, spender))
}

// SetFungibleAllowance replaces the allowance of spender.
func (s *StateDB) SetFungibleAllowance(id collection.ID, owner, spender account.Key, amount *uint256.Int) {
	s.writeUint256(fungibleAllowanceKey(id, owner, spender), amount)
}

// SpendFungibleAllowance lowers the allowance of spender by amount.
func (s *StateDB) SpendFungibleAllowance(id collection.ID, owner, spender account.Key, amount *uint256.Int) error {
	allowance := s.FungibleAllowance(id, owner, spender)
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	s.SetFungibleAllowance(id, owner, spender, allowance.Sub(allowance, amount))
	return nil
}

// TransferFungible moves amount from one account to another.
func (s *StateDB) TransferFungible(id collection.ID, from, to account.Key, amount *uint256.Int) error {
	balance := s.FungibleBalance(id, from)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to || amount.IsZero() {
		return nil
	}
	s.writeUint256(fungibleBalanceKey(id, from), balance.Sub(balance, amount))
	recipient := s.FungibleBalance(id, to)
	s.writeUint256(fungibleBalanceKey(id, to), recipient.Add(recipient, amount))
	return nil
}

// MintFungible creates amount for to.
func (s *StateDB) MintFungible(id collection.ID, to account.Key, amount *uint256.Int) error {
	supply := s.FungibleSupply(id)
	if _, overflow := supply.AddOverflow(supply, amount); overflow {
		return ErrSupplyOverflow
	}
	s.writeUint256(fungibleSupplyKey(id), supply)
	balance := s.FungibleBalance(id, to)
	s.writeUint256(fungibleBalanceKey(id, to), balance.Add(balance, amount))
	return nil
}

// BurnFungible destroys amount held by from.
func (s *StateDB) BurnFungible(id collection.ID, from account.Key, amount *uint256.Int) error {
	balance := s.FungibleBalance(id, from)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	s.writeUint256(fungibleBalanceKey(id, from), balance.Sub(balance, amount))
	supply := s.FungibleSupply(id)
	s.writeUint256(fungibleSupplyKey(id), supply.Sub(supply, amount))
	return nil
}
