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

// Package abi implements the Ethereum contract ABI wire format for the
// bridge: a head/tail tuple Writer, a bounds-checked Reader, function
// selectors and event logs.
//
// The typed Read*/Write* methods are what call handlers use. Type, Pack and
// Unpack offer the same encoding driven by a canonical type string.
package abi
