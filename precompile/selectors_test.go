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
	"testing"

	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/collection"
)

// The selector tables are append only: existing entries must never change
// or move, since deployed callers address methods by selector. New methods
// go at the end of their interface table and of the lists below.
type selectorEntry struct {
	iface    string
	sig      string
	selector string
	token    bool
}

var fungibleSelectors = []selectorEntry{
	{"ERC165", "supportsInterface(bytes4)", "0x01ffc9a7", false},
	{"ERC20", "totalSupply()", "0x18160ddd", false},
	{"ERC20", "balanceOf(address)", "0x70a08231", false},
	{"ERC20", "transfer(address,uint256)", "0xa9059cbb", false},
	{"ERC20", "transferFrom(address,address,uint256)", "0x23b872dd", false},
	{"ERC20", "approve(address,uint256)", "0x095ea7b3", false},
	{"ERC20", "allowance(address,address)", "0xdd62ed3e", false},
	{"ERC20Metadata", "name()", "0x06fdde03", false},
	{"ERC20Metadata", "symbol()", "0x95d89b41", false},
	{"ERC20Metadata", "decimals()", "0x313ce567", false},
	{"ERC20Cross", "balanceOfCross((address,uint256))", "0xec069398", false},
	{"ERC20Cross", "transferCross((address,uint256),uint256)", "0x2ada85ff", false},
	{"ERC20Cross", "transferFromCross((address,uint256),(address,uint256),uint256)", "0xd5cf430b", false},
	{"ERC20Cross", "approveCross((address,uint256),uint256)", "0x0ecd0ab0", false},
	{"ERC20Cross", "allowanceCross((address,uint256),(address,uint256))", "0xe0af4bd7", false},
	{"ERC20Cross", "burnFrom(address,uint256)", "0x79cc6790", false},
	{"ERC20Cross", "burnFromCross((address,uint256),uint256)", "0xbb2f5a58", false},
	{"ERC20Mintable", "mint(address,uint256)", "0x40c10f19", false},
	{"ERC20Mintable", "mintCross((address,uint256),uint256)", "0x269e6158", false},
}

var nonFungibleSelectors = []selectorEntry{
	{"ERC165", "supportsInterface(bytes4)", "0x01ffc9a7", false},
	{"ERC721", "balanceOf(address)", "0x70a08231", false},
	{"ERC721", "ownerOf(uint256)", "0x6352211e", false},
	{"ERC721", "safeTransferFrom(address,address,uint256,bytes)", "0xb88d4fde", false},
	{"ERC721", "safeTransferFrom(address,address,uint256)", "0x42842e0e", false},
	{"ERC721", "transferFrom(address,address,uint256)", "0x23b872dd", false},
	{"ERC721", "approve(address,uint256)", "0x095ea7b3", false},
	{"ERC721", "setApprovalForAll(address,bool)", "0xa22cb465", false},
	{"ERC721", "getApproved(uint256)", "0x081812fc", false},
	{"ERC721", "isApprovedForAll(address,address)", "0xe985e9c5", false},
	{"ERC721Metadata", "name()", "0x06fdde03", false},
	{"ERC721Metadata", "symbol()", "0x95d89b41", false},
	{"ERC721Metadata", "tokenURI(uint256)", "0xc87b56dd", false},
	{"ERC721Enumerable", "totalSupply()", "0x18160ddd", false},
	{"ERC721Enumerable", "tokenByIndex(uint256)", "0x4f6ccce7", false},
	{"ERC721Enumerable", "tokenOfOwnerByIndex(address,uint256)", "0x2f745c59", false},
	{"ERC721UniqueExtensions", "transfer(address,uint256)", "0xa9059cbb", false},
	{"ERC721UniqueExtensions", "transferCross((address,uint256),uint256)", "0x2ada85ff", false},
	{"ERC721UniqueExtensions", "transferFromCross((address,uint256),(address,uint256),uint256)", "0xd5cf430b", false},
	{"ERC721UniqueExtensions", "approveCross((address,uint256),uint256)", "0x0ecd0ab0", false},
	{"ERC721UniqueExtensions", "burn(uint256)", "0x42966c68", false},
	{"ERC721UniqueExtensions", "burnFrom(address,uint256)", "0x79cc6790", false},
	{"ERC721UniqueExtensions", "burnFromCross((address,uint256),uint256)", "0xbb2f5a58", false},
	{"ERC721UniqueExtensions", "crossOwnerOf(uint256)", "0x2b29dace", false},
	{"ERC721UniqueExtensions", "nextTokenId()", "0x75794a3c", false},
	{"ERC721UniqueExtensions", "mint(address)", "0x6a627842", false},
	{"ERC721UniqueExtensions", "mintCross((address,uint256))", "0x62a656b3", false},
	{"ERC721UniqueExtensions", "mintWithTokenURI(address,string)", "0x45c17782", false},
	{"ERC721UniqueExtensions", "setTokenURI(uint256,string)", "0x162094c4", false},
}

var refungibleSelectors = []selectorEntry{
	{"ERC165", "supportsInterface(bytes4)", "0x01ffc9a7", false},
	{"ERC721Metadata", "name()", "0x06fdde03", false},
	{"ERC721Metadata", "symbol()", "0x95d89b41", false},
	{"ERC721Metadata", "tokenURI(uint256)", "0xc87b56dd", false},
	{"ERC721Enumerable", "totalSupply()", "0x18160ddd", false},
	{"ERC721Enumerable", "tokenByIndex(uint256)", "0x4f6ccce7", false},
	{"ERC721Enumerable", "tokenOfOwnerByIndex(address,uint256)", "0x2f745c59", false},
	{"ERC721Refungible", "balanceOf(address)", "0x70a08231", false},
	{"ERC721Refungible", "ownerOf(uint256)", "0x6352211e", false},
	{"ERC721Refungible", "crossOwnerOf(uint256)", "0x2b29dace", false},
	{"ERC721Refungible", "transferFrom(address,address,uint256)", "0x23b872dd", false},
	{"ERC721Refungible", "transfer(address,uint256)", "0xa9059cbb", false},
	{"ERC721Refungible", "transferCross((address,uint256),uint256)", "0x2ada85ff", false},
	{"ERC721Refungible", "burn(uint256)", "0x42966c68", false},
	{"ERC721Refungible", "nextTokenId()", "0x75794a3c", false},
	{"ERC721Refungible", "mint(address)", "0x6a627842", false},
	{"ERC721Refungible", "mintWithTokenURI(address,string)", "0x45c17782", false},
	{"ERC721Refungible", "setTokenURI(uint256,string)", "0x162094c4", false},
	{"ERC721Refungible", "tokenContractAddress(uint256)", "0xab76fac6", false},
	{"ERC165", "supportsInterface(bytes4)", "0x01ffc9a7", true},
	{"ERC20", "totalSupply()", "0x18160ddd", true},
	{"ERC20", "balanceOf(address)", "0x70a08231", true},
	{"ERC20", "transfer(address,uint256)", "0xa9059cbb", true},
	{"ERC20", "transferFrom(address,address,uint256)", "0x23b872dd", true},
	{"ERC20", "approve(address,uint256)", "0x095ea7b3", true},
	{"ERC20", "allowance(address,address)", "0xdd62ed3e", true},
	{"ERC20Metadata", "name()", "0x06fdde03", true},
	{"ERC20Metadata", "symbol()", "0x95d89b41", true},
	{"ERC20Metadata", "decimals()", "0x313ce567", true},
	{"ERC20Cross", "balanceOfCross((address,uint256))", "0xec069398", true},
	{"ERC20Cross", "transferCross((address,uint256),uint256)", "0x2ada85ff", true},
	{"ERC20Cross", "transferFromCross((address,uint256),(address,uint256),uint256)", "0xd5cf430b", true},
	{"ERC20Cross", "approveCross((address,uint256),uint256)", "0x0ecd0ab0", true},
	{"ERC20Cross", "allowanceCross((address,uint256),(address,uint256))", "0xe0af4bd7", true},
	{"ERC20Cross", "burnFrom(address,uint256)", "0x79cc6790", true},
	{"ERC20Cross", "burnFromCross((address,uint256),uint256)", "0xbb2f5a58", true},
	{"ERC1633", "parentToken()", "0x80a54001", true},
	{"ERC1633", "parentTokenId()", "0xd7f083f3", true},
	{"ERC20Refungible", "repartition(uint256)", "0xd2418ca7", true},
}

func TestSelectorTables(t *testing.T) {
	tests := []struct {
		kind collection.Kind
		want []selectorEntry
	}{
		{collection.Fungible, fungibleSelectors},
		{collection.NonFungible, nonFungibleSelectors},
		{collection.Refungible, refungibleSelectors},
	}
	for _, tt := range tests {
		have := Signatures(tt.kind)
		if len(have) != len(tt.want) {
			t.Fatalf("%v: have %d methods, want %d", tt.kind, len(have), len(tt.want))
		}
		for i, want := range tt.want {
			got := have[i]
			if got.Interface != want.iface || got.Signature != want.sig || got.Token != want.token {
				t.Errorf("%v: method %d is %s.%s, want %s.%s", tt.kind, i, got.Interface, got.Signature, want.iface, want.sig)
			}
			if got.Selector.Hex() != want.selector {
				t.Errorf("%v: %s selector %s, want %s", tt.kind, want.sig, got.Selector.Hex(), want.selector)
			}
			if got.Selector != abi.SelectorOf(want.sig) {
				t.Errorf("%v: %s selector not derived from its signature", tt.kind, want.sig)
			}
		}
	}
}

func TestInterfaceIDs(t *testing.T) {
	want := map[string]string{
		"ERC165":           "0x01ffc9a7",
		"ERC20":            "0x36372b07",
		"ERC721":           "0x80ac58cd",
		"ERC721Metadata":   "0x5b5e139f",
		"ERC721Enumerable": "0x780e9d63",
		"ERC1633":          "0x5755c3f2",
	}
	for _, kind := range []collection.Kind{collection.Fungible, collection.NonFungible, collection.Refungible} {
		for _, iface := range Interfaces(kind) {
			id, ok := want[iface.Name]
			if !ok {
				continue
			}
			if iface.ID.Hex() != id {
				t.Errorf("%v: %s id %s, want %s", kind, iface.Name, iface.ID.Hex(), id)
			}
		}
	}
}
