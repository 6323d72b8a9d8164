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

import "errors"

// List of storage errors. They reach callers of the bridge unchanged.
var (
	ErrCollectionNotFound    = errors.New("collection not found")
	ErrWrongCollectionKind   = errors.New("operation not supported by collection kind")
	ErrTokenNotFound         = errors.New("token not found")
	ErrNotOwner              = errors.New("sender is not the token owner")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrSupplyOverflow        = errors.New("total supply overflow")
	ErrCollectionIDOverflow  = errors.New("collection id space exhausted")
	ErrTokenIDOverflow       = errors.New("token id space exhausted")
	ErrZeroPieces            = errors.New("refungible token needs at least one piece")
	ErrNotSoleOwner          = errors.New("sender does not own every piece")
)
