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

import "github.com/ledgerbridge/evmbridge/collection"

// SponsoredAt returns the last block at which a sponsored call was granted
// for the throttle key.
func (s *StateDB) SponsoredAt(id collection.ID, key []byte) (uint64, bool) {
	var block uint64
	ok := s.readRLP(sponsorRecordKey(id, key), &block)
	return block, ok
}

// SetSponsoredAt records a granted sponsored call.
func (s *StateDB) SetSponsoredAt(id collection.ID, key []byte, block uint64) {
	s.writeRLP(sponsorRecordKey(id, key), block)
}
