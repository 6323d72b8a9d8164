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

import "github.com/ledgerbridge/evmbridge/abi"

// Events emitted by collection and token addresses. The ERC-20 and ERC-721
// Transfer events share a signature and differ in the number of topics.
var (
	erc20TransferEvent = abi.MustNewEvent("Transfer",
		abi.Indexed("from", "address"),
		abi.Indexed("to", "address"),
		abi.Arg("value", "uint256"),
	)
	erc20ApprovalEvent = abi.MustNewEvent("Approval",
		abi.Indexed("owner", "address"),
		abi.Indexed("spender", "address"),
		abi.Arg("value", "uint256"),
	)

	erc721TransferEvent = abi.MustNewEvent("Transfer",
		abi.Indexed("from", "address"),
		abi.Indexed("to", "address"),
		abi.Indexed("tokenId", "uint256"),
	)
	erc721ApprovalEvent = abi.MustNewEvent("Approval",
		abi.Indexed("owner", "address"),
		abi.Indexed("approved", "address"),
		abi.Indexed("tokenId", "uint256"),
	)
	erc721ApprovalForAllEvent = abi.MustNewEvent("ApprovalForAll",
		abi.Indexed("owner", "address"),
		abi.Indexed("operator", "address"),
		abi.Arg("approved", "bool"),
	)
)
