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
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/collection"
)

// Signature describes one callable method of a synthetic address.
type Signature struct {
	Interface string
	Signature string
	Selector  abi.Selector
	View      bool

	// Token is set for methods served at refungible token addresses rather
	// than at the collection address.
	Token bool
}

// Signatures lists the methods served for collections of the given kind in
// dispatch order.
func Signatures(kind collection.Kind) []Signature {
	switch kind {
	case collection.Fungible:
		return fungibleDialect.signatures(false)
	case collection.NonFungible:
		return nonFungibleDialect.signatures(false)
	case collection.Refungible:
		return append(refungibleDialect.signatures(false), refungibleTokenDialect.signatures(true)...)
	}
	return nil
}

// Interface is an ERC-165 interface served for a collection kind.
type Interface struct {
	Name  string
	ID    abi.Selector
	Token bool
}

// Interfaces lists the ERC-165 interfaces reported for a collection kind.
func Interfaces(kind collection.Kind) []Interface {
	switch kind {
	case collection.Fungible:
		return interfacesOf(fungibleDialect, false)
	case collection.NonFungible:
		return interfacesOf(nonFungibleDialect, false)
	case collection.Refungible:
		return append(interfacesOf(refungibleDialect, false), interfacesOf(refungibleTokenDialect, true)...)
	}
	return nil
}

func interfacesOf[H any](d *dialect[H], token bool) []Interface {
	ifaces := make([]Interface, len(d.tables))
	for i, t := range d.tables {
		ifaces[i] = Interface{Name: t.name, ID: t.id, Token: token}
	}
	return ifaces
}
