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

package precompile

import (
	"errors"

	"github.com/ledgerbridge/evmbridge/abi"
)

// List of errors a bridge call can fail with on top of the storage errors of
// package state, which are passed through unchanged.
var (
	ErrBudgetExhausted    = errors.New("nested call budget exhausted")
	ErrUnknownSelector    = errors.New("unrecognized selector")
	ErrNotPermitted       = errors.New("caller is not permitted")
	ErrNotCollectionOwner = errors.New("caller is not the collection owner")
	ErrTransfersDisabled  = errors.New("transfers are disabled in this collection")
	ErrValueNotAccepted   = errors.New("method does not accept value")
	ErrNestingCycle       = errors.New("token would own itself")
	ErrNotNestable        = errors.New("target token does not exist")
	ErrZeroAddress        = errors.New("transfer to the zero address")
	ErrIndexOutOfRange    = errors.New("index out of range")
)

// revertSelector is the selector of the Solidity Error(string) revert.
var revertSelector = abi.SelectorOf("Error(string)")

// RevertData encodes err as Solidity Error(string) revert data.
func RevertData(err error) []byte {
	w := abi.NewCallWriter(revertSelector)
	w.WriteString(err.Error())
	return w.Finish()
}

// UnpackRevert returns the reason carried by Error(string) revert data.
func UnpackRevert(data []byte) (string, error) {
	sel, r, err := abi.SplitCall(data)
	if err != nil {
		return "", err
	}
	if sel != revertSelector {
		return "", ErrUnknownSelector
	}
	return r.ReadString()
}
